package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerRunsCommandsInProjectRoot(t *testing.T) {
	root := t.TempDir()
	runner := NewExecRunner([]string{"echo pre > hook.out"}, nil)

	err := runner.Run(context.Background(), types.HookPre, types.HookContext{
		ProjectRoot: root,
		SourceRef:   "v1",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "hook.out"))
	require.NoError(t, err)
	assert.Equal(t, "pre\n", string(data))
}

func TestExecRunnerExposesRunEnvironment(t *testing.T) {
	root := t.TempDir()
	runner := NewExecRunner(nil, []string{"echo $TMPLSYNC_PHASE:$TMPLSYNC_SOURCE_REF > env.out"})

	err := runner.Run(context.Background(), types.HookPost, types.HookContext{
		ProjectRoot: root,
		SourceRef:   "v2.0.0",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "env.out"))
	require.NoError(t, err)
	assert.Equal(t, "post:v2.0.0\n", string(data))
}

func TestExecRunnerFailure(t *testing.T) {
	runner := NewExecRunner([]string{"exit 3"}, nil)

	err := runner.Run(context.Background(), types.HookPre, types.HookContext{
		ProjectRoot: t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHookFailed))
}

func TestExecRunnerEmptyPhaseIsNoop(t *testing.T) {
	runner := NewExecRunner(nil, nil)
	require.NoError(t, runner.Run(context.Background(), types.HookPre, types.HookContext{}))
	require.NoError(t, runner.Run(context.Background(), types.HookPost, types.HookContext{}))
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{FailOn: types.HookPost}

	require.NoError(t, rec.Run(context.Background(), types.HookPre, types.HookContext{SourceRef: "v1"}))
	err := rec.Run(context.Background(), types.HookPost, types.HookContext{})
	require.Error(t, err)

	assert.Equal(t, []types.HookPhase{types.HookPre, types.HookPost}, rec.Calls)
	assert.Equal(t, "v1", rec.Contexts[0].SourceRef)
}
