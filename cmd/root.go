package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/envconfig"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/ghclient"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/ossp"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/prompt"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/report"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/tui"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/version"
)

// metadataGenerator updates the OSSP datastore for one project.
type metadataGenerator interface {
	UpdateMaster(ctx context.Context, overwrite bool) error
	UpdateVersion(ctx context.Context, overwrite bool) error
}

// reportRunner generates one assessment report.
type reportRunner interface {
	Run(ctx context.Context) error
	UpdateVersionRecord(ctx context.Context) error
	OutputPath() string
}

// app holds what the commands need. Tests replace the collaborators.
type app struct {
	prompter   prompt.Prompter
	out        io.Writer
	errOut     io.Writer
	configPath string
	logLevel   string
	log        *zap.SugaredLogger

	newGenerator func(ctx context.Context, issueID int, name string, env envconfig.Env) metadataGenerator
	newRunner    func(ctx context.Context, id report.Identity, kind report.Kind, env envconfig.Env) reportRunner
}

func newApp() *app {
	a := &app{
		prompter: prompt.New(os.Stdin, os.Stdout),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	a.newGenerator = func(ctx context.Context, issueID int, name string, env envconfig.Env) metadataGenerator {
		gh := ghclient.New(ctx, env.GitHubAuthToken)
		return ossp.NewGenerator(issueID, name, env, gh, a.out, a.log)
	}
	a.newRunner = func(ctx context.Context, id report.Identity, kind report.Kind, env envconfig.Env) reportRunner {
		gh := ghclient.New(ctx, env.GitHubAuthToken)
		return report.NewRunner(id, kind, env, report.Deps{Alerts: gh, Out: a.out, Log: a.log})
	}
	return a
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: "Manage OSSP metadata and generate assessment reports",
		Long: `Be-Secure developer toolkit.

Maintains the OSSP datastore (OSSP-Master.json and version details) and runs
scorecard, criticality_score and codeql assessments for tracked projects.

Settings are kept in ~/.bes-dev-kit/bes-dev-kit.json and asked for on first use.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
	}
	rootCmd.SetVersionTemplate(version.AppName + " v{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "v", false, "Show the application's version and exit.")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.out)
	rootCmd.AddCommand(newGenerateCmd(a), newConfigCmd(a))
	return rootCmd
}

func (a *app) setupLogger() error {
	if a.log != nil {
		return nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("unable to construct logger: %w", err)
	}
	a.log = logger.Sugar()
	return nil
}

func (a *app) store() (*envconfig.Store, error) {
	return a.storeWithOutput(a.out)
}

// storeWithOutput is store with notices sent to w instead of a.out.
func (a *app) storeWithOutput(w io.Writer) (*envconfig.Store, error) {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = envconfig.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return envconfig.NewStore(path, a.prompter, w, a.log), nil
}

// run executes the command line and returns the exit status.
func (a *app) run(ctx context.Context, args []string) int {
	if wantsVersion(args) {
		fmt.Fprintln(a.out, version.String())
		return 0
	}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err == nil {
		return 0
	}
	a.printError(err)
	return 1
}

// wantsVersion reports whether --version or -v appears among the root
// flags, i.e. before the first command name. The flag is not persistent
// because "generate report" defines its own --version.
func wantsVersion(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--version" || arg == "-v" || arg == "--version=true":
			return true
		case arg == "--log-level":
			i++
		case arg == "--":
			return false
		case !strings.HasPrefix(arg, "-"):
			return false
		}
	}
	return false
}

func (a *app) printError(err error) {
	var invalid *report.InvalidKindError
	switch {
	case errors.Is(err, ErrTooManyReports):
		tui.Alert(a.out, "Too many arguments")
	case errors.As(err, &invalid):
		tui.AlertValue(a.out, "Invalid report", invalid.Value)
	default:
		tui.Alert(a.out, "%v", err)
	}
}

// Execute runs the CLI and exits with a non-zero status on failure.
func Execute() {
	if code := newApp().run(context.Background(), os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}
