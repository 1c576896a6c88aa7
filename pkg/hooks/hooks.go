// Package hooks provides HookRunner implementations. The materializer only
// sees the capability interface; process execution lives here so the core
// stays free of I/O and process concerns.
package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// ExecRunner runs configured shell commands at each lifecycle phase
type ExecRunner struct {
	// Pre and Post are the commands for each phase, run in order
	Pre  []string
	Post []string
}

// NewExecRunner creates a runner for the project's configured hook commands
func NewExecRunner(pre, post []string) *ExecRunner {
	return &ExecRunner{Pre: pre, Post: post}
}

// Run implements types.HookRunner. Commands run with the project root as
// working directory and the run context exposed through the environment.
func (r *ExecRunner) Run(ctx context.Context, phase types.HookPhase, hctx types.HookContext) error {
	logger := logging.GetLogger("hooks")

	var commands []string
	switch phase {
	case types.HookPre:
		commands = r.Pre
	case types.HookPost:
		commands = r.Post
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown hook phase %q", phase)
	}

	for _, command := range commands {
		logger.Debug().
			Str("phase", string(phase)).
			Str("command", command).
			Msg("running hook")

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = hctx.ProjectRoot
		cmd.Env = append(cmd.Environ(),
			fmt.Sprintf("TMPLSYNC_PHASE=%s", phase),
			fmt.Sprintf("TMPLSYNC_SOURCE_REF=%s", hctx.SourceRef),
			fmt.Sprintf("TMPLSYNC_PATHS=%s", strings.Join(hctx.Paths, "\n")),
		)

		output, err := cmd.CombinedOutput()
		if err != nil {
			return errors.Wrapf(err, errors.ErrHookFailed,
				"%s hook %q failed: %s", phase, command, strings.TrimSpace(string(output)))
		}
	}

	return nil
}

// Recorder is a fake HookRunner for tests. It records invocations and can
// be primed to fail a phase.
type Recorder struct {
	Calls    []types.HookPhase
	Contexts []types.HookContext
	FailOn   types.HookPhase
}

// Run implements types.HookRunner
func (r *Recorder) Run(ctx context.Context, phase types.HookPhase, hctx types.HookContext) error {
	r.Calls = append(r.Calls, phase)
	r.Contexts = append(r.Contexts, hctx)
	if r.FailOn == phase {
		return errors.Newf(errors.ErrHookFailed, "%s hook failed", phase)
	}
	return nil
}

var (
	_ types.HookRunner = (*ExecRunner)(nil)
	_ types.HookRunner = (*Recorder)(nil)
)
