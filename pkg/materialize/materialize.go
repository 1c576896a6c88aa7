// Package materialize applies a SyncPlan to the project filesystem. Writes
// are per-file atomic (scoped temporary path plus rename); the run as a
// whole is deliberately not transactional. The state store is persisted at
// end of run for exactly the paths that were successfully written, so a
// re-run resumes from actual disk state.
package materialize

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/paths"
	"github.com/arthur-debert/tmplsync/pkg/source"
	"github.com/arthur-debert/tmplsync/pkg/state"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// Result reports what a run actually did
type Result struct {
	// Written are the paths created or updated, in plan order
	Written []string

	// KeptLocal are conflicting paths left untouched by policy or choice
	KeptLocal []string

	// Deleted are the paths removed as explicit delete candidates
	Deleted []string

	// Unchanged counts skip-unchanged entries
	Unchanged int

	// PostHookErr is a post-materialize hook failure. Reported, never
	// rolled back.
	PostHookErr error
}

// Materializer executes sync plans against a project
type Materializer struct {
	fs          types.FS
	projectRoot string
	statePath   string
	hooks       types.HookRunner
	logger      zerolog.Logger
	now         func() time.Time
}

// New creates a Materializer for a project. The hook runner may be nil
// when the project configures no hooks.
func New(fsys types.FS, projectRoot string, hooks types.HookRunner) *Materializer {
	return &Materializer{
		fs:          fsys,
		projectRoot: projectRoot,
		statePath:   paths.StateFile(projectRoot),
		hooks:       hooks,
		logger:      logging.GetLogger("materialize"),
		now:         time.Now,
	}
}

// Apply executes the plan under the given conflict policy. The store is
// not mutated; a clone accumulates the records of successfully written
// paths and is persisted at end of run, also on mid-run failure, so the
// state store always reflects what actually reached disk.
//
// Under the fail policy, a plan containing any update-conflict aborts
// before the pre-hook and before any write; the plan is left for the
// caller to inspect. The chooser is consulted per file and only under the
// interactive policy.
func (m *Materializer) Apply(ctx context.Context, plan *types.SyncPlan, snap *source.Snapshot,
	store *state.Store, policy types.ConflictPolicy, chooser types.ConflictChooser) (*Result, error) {

	done := logging.LogOperationStart(m.logger, "apply")
	defer done()

	if conflicts := plan.Conflicts(); policy == types.PolicyFail && len(conflicts) > 0 {
		return nil, errors.Newf(errors.ErrConflictPolicy,
			"%d update-conflict entries under fail policy", len(conflicts)).
			WithDetail("paths", conflictPaths(conflicts))
	}
	if policy == types.PolicyInteractive && chooser == nil {
		return nil, errors.New(errors.ErrInvalidInput,
			"interactive policy requires a conflict chooser")
	}

	if err := m.runHook(ctx, types.HookPre, plan); err != nil {
		// Pre-hook failure aborts before any write
		return nil, err
	}

	result := &Result{}
	next := store.Clone()

	var runErr error
	for _, entry := range plan.Entries {
		// Cancellation is honored between whole-file writes, never
		// inside a single atomic rename
		if err := ctx.Err(); err != nil {
			runErr = errors.Wrap(err, errors.ErrInternal, "run cancelled")
			break
		}

		if err := m.applyEntry(ctx, entry, snap, next, policy, chooser, result); err != nil {
			runErr = err
			break
		}
	}

	// Persist state for paths successfully written, also when the run
	// stopped early, so a re-run resumes from actual disk state.
	if err := next.Save(m.fs, m.statePath); err != nil {
		if runErr == nil {
			runErr = err
		} else {
			m.logger.Error().Err(err).Msg("failed to persist state after run failure")
		}
	}

	if runErr != nil {
		return result, runErr
	}

	if err := m.runHook(ctx, types.HookPost, plan); err != nil {
		result.PostHookErr = err
	}

	m.logger.Info().
		Int("written", len(result.Written)).
		Int("keptLocal", len(result.KeptLocal)).
		Int("deleted", len(result.Deleted)).
		Int("unchanged", result.Unchanged).
		Msg("apply complete")

	return result, nil
}

func (m *Materializer) applyEntry(ctx context.Context, entry types.PlanEntry, snap *source.Snapshot,
	next *state.Store, policy types.ConflictPolicy, chooser types.ConflictChooser, result *Result) error {

	switch entry.Disposition {
	case types.DispositionSkipUnchanged:
		result.Unchanged++
		return nil

	case types.DispositionCreate, types.DispositionUpdateClean:
		return m.write(entry, snap, next, result)

	case types.DispositionUpdateConflict:
		choice := types.ChoiceKeepLocal
		switch policy {
		case types.PolicyTakeUpstream:
			choice = types.ChoiceTakeUpstream
		case types.PolicyInteractive:
			c, err := chooser(entry)
			if err != nil {
				return errors.Wrapf(err, errors.ErrConflictPolicy,
					"conflict resolution failed for %s", entry.Path)
			}
			choice = c
		}
		if choice == types.ChoiceTakeUpstream {
			return m.write(entry, snap, next, result)
		}
		m.logger.Info().Str("path", entry.Path).Msg("conflict kept local")
		result.KeptLocal = append(result.KeptLocal, entry.Path)
		return nil

	case types.DispositionDeleteCandidate:
		return m.delete(entry, next, result)

	default:
		return errors.Newf(errors.ErrInternal, "unknown disposition %q for %s",
			entry.Disposition, entry.Path)
	}
}

func (m *Materializer) write(entry types.PlanEntry, snap *source.Snapshot,
	next *state.Store, result *Result) error {

	content, ok := snap.Content(entry.Path)
	if !ok {
		return errors.Newf(errors.ErrInternal,
			"snapshot is missing content for planned path %s", entry.Path)
	}

	target := filepath.Join(m.projectRoot, filepath.FromSlash(entry.Path))
	if err := WriteFileAtomic(m.fs, target, content); err != nil {
		return err
	}

	next.Set(types.SyncRecord{
		Path:                entry.Path,
		UpstreamFingerprint: entry.UpstreamFingerprint,
		SourceRef:           snap.Ref,
		SyncedAt:            m.now().UTC(),
	})

	m.logger.Debug().
		Str("path", entry.Path).
		Str("disposition", string(entry.Disposition)).
		Msg("wrote file")

	result.Written = append(result.Written, entry.Path)
	return nil
}

func (m *Materializer) delete(entry types.PlanEntry, next *state.Store, result *Result) error {
	target := filepath.Join(m.projectRoot, filepath.FromSlash(entry.Path))

	if err := m.fs.Remove(target); err != nil {
		if _, statErr := m.fs.Stat(target); statErr == nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to delete %s", entry.Path)
		}
		// Already gone locally; dropping the record is still correct
	}
	next.Delete(entry.Path)

	m.logger.Info().Str("path", entry.Path).Msg("deleted dropped path")
	result.Deleted = append(result.Deleted, entry.Path)
	return nil
}

func (m *Materializer) runHook(ctx context.Context, phase types.HookPhase, plan *types.SyncPlan) error {
	if m.hooks == nil {
		return nil
	}

	hctx := types.HookContext{
		ProjectRoot: m.projectRoot,
		SourceRef:   plan.SourceRef,
	}
	for _, entry := range plan.Entries {
		if entry.Disposition != types.DispositionSkipUnchanged {
			hctx.Paths = append(hctx.Paths, entry.Path)
		}
	}

	if err := m.hooks.Run(ctx, phase, hctx); err != nil {
		return errors.Wrapf(err, errors.ErrHookFailed, "%s hook failed", phase)
	}
	return nil
}

func conflictPaths(entries []types.PlanEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}
