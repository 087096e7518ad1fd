// Package envconfig manages the per-user JSON file holding the GitHub
// organisation, datastore directories and GitHub token used by the
// generate commands.
//
// The file is created with defaults on first use, blank values are filled
// in interactively and the result is handed to collaborators as an Env
// value instead of being exported into the process environment.
package envconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/fileutil"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/prompt"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/tui"
)

// Keys of the config file, in file order.
const (
	KeyGitHubOrg       = "GITHUB_ORG"
	KeyOSSPOIDir       = "OSSPOI_DIR"
	KeyAssessmentDir   = "ASSESSMENT_DIR"
	KeyGitHubAuthToken = "GITHUB_AUTH_TOKEN"
)

// Keys lists all config keys in file order.
var Keys = []string{KeyGitHubOrg, KeyOSSPOIDir, KeyAssessmentDir, KeyGitHubAuthToken}

// DefaultGitHubOrg is pre-filled in a new config file.
const DefaultGitHubOrg = "Be-Secure"

const (
	dirName  = ".bes-dev-kit"
	fileName = "bes-dev-kit.json"
)

// DefaultPath returns <home>/.bes-dev-kit/bes-dev-kit.json.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "locate home directory")
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Env is the loaded configuration.
type Env struct {
	GitHubOrg       string `json:"GITHUB_ORG" yaml:"GITHUB_ORG"`
	OSSPOIDir       string `json:"OSSPOI_DIR" yaml:"OSSPOI_DIR"`
	AssessmentDir   string `json:"ASSESSMENT_DIR" yaml:"ASSESSMENT_DIR"`
	GitHubAuthToken string `json:"GITHUB_AUTH_TOKEN" yaml:"GITHUB_AUTH_TOKEN"`
}

// Defaults returns the content of a freshly created config file.
func Defaults() Env {
	return Env{GitHubOrg: DefaultGitHubOrg}
}

func (e *Env) field(key string) *string {
	switch key {
	case KeyGitHubOrg:
		return &e.GitHubOrg
	case KeyOSSPOIDir:
		return &e.OSSPOIDir
	case KeyAssessmentDir:
		return &e.AssessmentDir
	case KeyGitHubAuthToken:
		return &e.GitHubAuthToken
	}
	return nil
}

// Get returns the value stored under key.
func (e Env) Get(key string) string {
	if f := e.field(key); f != nil {
		return *f
	}
	return ""
}

// Environ returns the config as KEY=value pairs, suitable for appending
// to exec.Cmd.Env.
func (e Env) Environ() []string {
	env := make([]string, 0, len(Keys))
	for _, k := range Keys {
		env = append(env, k+"="+e.Get(k))
	}
	return env
}

// Masked returns a copy with the token hidden.
func (e Env) Masked() Env {
	if n := len(e.GitHubAuthToken); n > 0 {
		keep := 4
		if n <= 8 {
			keep = 0
		}
		e.GitHubAuthToken = strings.Repeat("*", n-keep) + e.GitHubAuthToken[n-keep:]
	}
	return e
}

// ParseError is returned when the config file is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store reads and writes the config file.
type Store struct {
	path   string
	prompt prompt.Prompter
	out    io.Writer
	log    *zap.SugaredLogger

	// pathExists is swapped out in tests.
	pathExists func(string) bool
}

// NewStore creates a Store for the file at path. Blank values are asked
// for with p; alerts are written to out.
func NewStore(path string, p prompt.Prompter, out io.Writer, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		path:   path,
		prompt: p,
		out:    out,
		log:    log,
		pathExists: func(p string) bool {
			ok, _ := fileutil.PathExists(p)
			return ok
		},
	}
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// EnsureFile creates the config file with defaults if it is missing or
// empty. It reports whether the file was written.
func (s *Store) EnsureFile() (bool, error) {
	if info, err := os.Stat(s.path); err == nil && info.Size() > 0 {
		return false, nil
	} else if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "stat %s", s.path)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return false, errors.Wrap(err, "create config directory")
	}
	tui.Alert(s.out, "Creating environment variables file")
	if err := s.write(Defaults()); err != nil {
		return false, err
	}
	s.log.Infow("created config file", "path", s.path)
	return true, nil
}

// FillBlanks asks for every blank value and stores the result. Values
// other than the token must be existing paths. The file is only
// rewritten if something was filled in.
func (s *Store) FillBlanks() error {
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "lock %s", s.path)
	}
	defer lock.Unlock()

	env, err := s.read()
	if err != nil {
		return err
	}

	changed := false
	for _, key := range Keys {
		f := env.field(key)
		if *f != "" {
			continue
		}
		v, err := s.ask(key)
		if err != nil {
			return errors.Wrapf(err, "read value for %s", key)
		}
		*f = v
		changed = true
		s.log.Debugw("filled config value", "key", key)
	}
	if !changed {
		return nil
	}
	return s.write(env)
}

// ask repeats the prompt until a usable value is given.
func (s *Store) ask(key string) (string, error) {
	label := fmt.Sprintf("Enter the value for %s", key)
	for {
		var (
			v   string
			err error
		)
		if key == KeyGitHubAuthToken {
			v, err = s.prompt.Secret(label)
		} else {
			v, err = s.prompt.Prompt(label)
		}
		if err != nil {
			return "", err
		}
		if key != KeyGitHubAuthToken && !s.pathExists(v) {
			tui.AlertValue(s.out, "Path", v+" does not exist")
			continue
		}
		if v == "" {
			continue
		}
		return v, nil
	}
}

// Load reads the config file.
func (s *Store) Load() (Env, error) {
	return s.read()
}

// Prepare creates the file if needed, fills blanks and loads the result.
// Every generate command starts with it.
func (s *Store) Prepare() (Env, error) {
	if _, err := s.EnsureFile(); err != nil {
		return Env{}, err
	}
	if err := s.FillBlanks(); err != nil {
		return Env{}, err
	}
	return s.Load()
}

func (s *Store) read() (Env, error) {
	var env Env
	data, err := os.ReadFile(s.path)
	if err != nil {
		return env, errors.Wrapf(err, "read config file %s", s.path)
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &env); err != nil {
		return env, &ParseError{Path: s.path, Err: err}
	}
	return env, nil
}

func (s *Store) write(env Env) error {
	data, err := fileutil.MarshalIndent(env)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return fileutil.WriteFileAtomic(s.path, data, 0o600)
}
