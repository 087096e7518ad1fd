package report

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrAuthentication is returned when an external tool rejects the
// GitHub token.
var ErrAuthentication = errors.New("authentication error: check GITHUB_AUTH_TOKEN in the config file")

// Executor runs an external assessment tool and returns its stdout.
type Executor interface {
	Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// CommandExecutor runs tools found in PATH.
type CommandExecutor struct{}

// Run implements Executor.
func (CommandExecutor) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, errors.Wrapf(err, "%s not found in PATH", name)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			msg := stderr.String()
			if isAuthFailure(msg) {
				return nil, errors.Wrapf(ErrAuthentication, "%s failed", name)
			}
			return nil, errors.Errorf("%s failed: %s", name, strings.TrimSpace(msg))
		}
		return nil, errors.Wrapf(err, "failed to run %s", name)
	}
	return out, nil
}

func isAuthFailure(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "bad credentials") ||
		strings.Contains(s, "401 unauthorized") ||
		strings.Contains(s, "github_auth_token") ||
		strings.Contains(s, "oauth2")
}
