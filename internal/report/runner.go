// Package report runs assessment reports for an OSSP version and records
// their scores in the version details file.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/envconfig"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/fileutil"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/ghclient"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/ossp"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/tui"
)

// ErrNoVersionScore is returned by UpdateVersionRecord for kinds that do
// not produce a score.
var ErrNoVersionScore = errors.New("report does not produce a version score")

// Identity names the project version a report is generated for.
type Identity struct {
	IssueID int
	Name    string
	Version string
}

// AlertSource provides code scanning alerts.
type AlertSource interface {
	CodeScanningAlerts(ctx context.Context, owner, name, ref string) ([]ghclient.Alert, error)
}

// Deps are the collaborators of a Runner.
type Deps struct {
	Exec   Executor
	Alerts AlertSource
	Out    io.Writer
	Log    *zap.SugaredLogger
	Now    func() time.Time
}

// Runner generates one report.
type Runner struct {
	id    Identity
	kind  Kind
	env   envconfig.Env
	deps  Deps
	runID string
	log   *zap.SugaredLogger
}

// NewRunner creates a Runner for kind.
func NewRunner(id Identity, kind Kind, env envconfig.Env, deps Deps) *Runner {
	if deps.Exec == nil {
		deps.Exec = CommandExecutor{}
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	runID := uuid.NewString()
	return &Runner{
		id:    id,
		kind:  kind,
		env:   env,
		deps:  deps,
		runID: runID,
		log: deps.Log.With("run_id", runID, "report", string(kind),
			"issue_id", id.IssueID, "name", id.Name, "version", id.Version),
	}
}

// OutputPath is where Run stores the report.
func (r *Runner) OutputPath() string {
	return filepath.Join(r.env.AssessmentDir, string(r.kind),
		fmt.Sprintf("%s-%s-%s-report.json", r.id.Name, r.id.Version, r.kind))
}

func (r *Runner) checkIdentity() error {
	if err := fileutil.CheckPathElement("name", r.id.Name); err != nil {
		return err
	}
	return fileutil.CheckPathElement("version", r.id.Version)
}

func (r *Runner) repoSlug() string {
	return fmt.Sprintf("github.com/%s/%s", r.env.GitHubOrg, r.id.Name)
}

// childEnv is the environment of external tools: ours plus the config.
func (r *Runner) childEnv() []string {
	env := append(os.Environ(), r.env.Environ()...)
	return append(env, "GITHUB_TOKEN="+r.env.GitHubAuthToken)
}

// Run generates the report and writes it to OutputPath.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.checkIdentity(); err != nil {
		return err
	}
	r.log.Infow("generating report")
	tui.Info(r.deps.Out, "Generating %s report for %s %s", r.kind, r.id.Name, r.id.Version)

	var (
		data []byte
		err  error
	)
	switch r.kind {
	case Scorecard:
		data, err = r.deps.Exec.Run(ctx, r.childEnv(), "scorecard",
			"--repo="+r.repoSlug(), "--format=json", "--show-details")
	case CriticalityScore:
		data, err = r.deps.Exec.Run(ctx, r.childEnv(), "criticality_score",
			"--repo", r.repoSlug(), "--format", "json")
	case CodeQL:
		data, err = r.codeScanning(ctx)
	default:
		return &InvalidKindError{Value: string(r.kind)}
	}
	if err != nil {
		return errors.Wrapf(err, "%s report", r.kind)
	}
	if !json.Valid(data) {
		return errors.Errorf("%s report: output is not valid JSON", r.kind)
	}

	path := r.OutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create report directory")
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	r.log.Infow("report written", "path", path)
	tui.Success(r.deps.Out, "%s report written to %s", r.kind, path)
	return nil
}

type codeScanningReport struct {
	RunID       string           `json:"run_id"`
	Repository  string           `json:"repository"`
	Version     string           `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Alerts      []ghclient.Alert `json:"alerts"`
}

func (r *Runner) codeScanning(ctx context.Context) ([]byte, error) {
	if r.deps.Alerts == nil {
		return nil, errors.New("no GitHub client configured")
	}
	alerts, err := r.deps.Alerts.CodeScanningAlerts(ctx, r.env.GitHubOrg, r.id.Name, "refs/tags/"+r.id.Version)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []ghclient.Alert{}
	}
	return fileutil.MarshalIndent(codeScanningReport{
		RunID:       r.runID,
		Repository:  r.repoSlug(),
		Version:     r.id.Version,
		GeneratedAt: r.deps.Now().UTC().Format(time.RFC3339),
		Alerts:      alerts,
	})
}

// UpdateVersionRecord copies the score of the generated report into the
// version details file.
func (r *Runner) UpdateVersionRecord(ctx context.Context) error {
	if !r.kind.UpdatesVersion() {
		return ErrNoVersionScore
	}
	if err := r.checkIdentity(); err != nil {
		return err
	}

	var doc map[string]any
	if err := fileutil.ReadJSON(r.OutputPath(), &doc); err != nil {
		return errors.Wrapf(err, "read %s report", r.kind)
	}
	score, err := extractScore(r.kind, doc)
	if err != nil {
		return err
	}

	vs := ossp.NewVersionStore(ossp.VersionPath(r.env.OSSPOIDir, r.id.IssueID, r.id.Name))
	if err := vs.SetScore(r.id.Version, string(r.kind), score); err != nil {
		return errors.Wrapf(err, "update %s", vs.Path())
	}
	r.log.Infow("version record updated", "path", vs.Path(), "score", score)
	tui.Success(r.deps.Out, "Recorded %s %s for %s in %s", r.kind, score, r.id.Version, vs.Path())
	return nil
}

// scoreKeys are the fields holding the overall score, by kind.
var scoreKeys = map[Kind][]string{
	Scorecard:        {"score"},
	CriticalityScore: {"criticality_score", "default_score"},
}

func extractScore(kind Kind, doc map[string]any) (string, error) {
	for _, key := range scoreKeys[kind] {
		switch v := doc[key].(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case string:
			if v != "" {
				return v, nil
			}
		}
	}
	return "", errors.Errorf("%s report has no score", kind)
}
