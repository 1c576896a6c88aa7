package sync

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/tmplsync/pkg/bundles"
	"github.com/arthur-debert/tmplsync/pkg/config"
	"github.com/arthur-debert/tmplsync/pkg/diff"
	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/fingerprint"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/materialize"
	"github.com/arthur-debert/tmplsync/pkg/paths"
	"github.com/arthur-debert/tmplsync/pkg/patterns"
	"github.com/arthur-debert/tmplsync/pkg/resolver"
	"github.com/arthur-debert/tmplsync/pkg/source"
	"github.com/arthur-debert/tmplsync/pkg/state"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// Run carries everything Plan computed and Apply needs: the plan itself
// plus the upstream snapshot and loaded state it was computed from. A Run
// is ephemeral; it is never persisted and is recomputed from scratch each
// time.
type Run struct {
	Plan       *types.SyncPlan
	Snapshot   *source.Snapshot
	Store      *state.Store
	Resolution *resolver.Result
}

// Syncer drives synchronization runs for one project
type Syncer struct {
	fs          types.FS
	src         types.ContentSource
	projectRoot string
	cfg         *config.Config
	hooks       types.HookRunner
	locker      Locker
	logger      zerolog.Logger
}

// New creates a Syncer. The default run lock is an advisory file lock
// under the project's state directory.
func New(fsys types.FS, src types.ContentSource, projectRoot string, cfg *config.Config,
	hookRunner types.HookRunner) *Syncer {
	return &Syncer{
		fs:          fsys,
		src:         src,
		projectRoot: projectRoot,
		cfg:         cfg,
		hooks:       hookRunner,
		locker:      NewFileLocker(paths.LockFile(projectRoot)),
		logger:      logging.GetLogger("sync"),
	}
}

// WithLocker replaces the run lock. Tests running on in-memory filesystems
// use NewMemLocker here.
func (s *Syncer) WithLocker(l Locker) *Syncer {
	s.locker = l
	return s
}

// Plan computes the sync plan for the project. It is pure: it reads the
// content source, the state store and the local filesystem, and writes
// nothing. All upstream fetches complete before classification, so the
// plan always reflects a consistent upstream snapshot.
func (s *Syncer) Plan(ctx context.Context) (*Run, error) {
	done := logging.LogOperationStart(s.logger, "plan")
	defer done()

	listing, err := s.src.List(ctx, s.cfg.SourceRef)
	if err != nil {
		return nil, err
	}

	defsData, err := s.src.Fetch(ctx, s.cfg.SourceRef, paths.BundlesFileName)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceFetch,
			"template origin has no %s at ref %q", paths.BundlesFileName, s.cfg.SourceRef)
	}
	graph, err := bundles.Load(defsData)
	if err != nil {
		return nil, err
	}

	res, err := resolver.Resolve(graph, s.cfg, listing)
	if err != nil {
		return nil, err
	}

	store, err := state.Load(s.fs, paths.StateFile(s.projectRoot))
	if err != nil {
		return nil, err
	}

	desired := res.Files.Paths()
	snap, err := source.Take(ctx, s.src, s.cfg.SourceRef, desired)
	if err != nil {
		return nil, err
	}

	plan := &types.SyncPlan{SourceRef: s.cfg.SourceRef}

	for _, path := range desired {
		localFP, err := fingerprint.File(s.fs, filepath.Join(s.projectRoot, filepath.FromSlash(path)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to fingerprint local file %s", path)
		}

		upstreamFP, _ := snap.Fingerprint(path)

		var rec *types.SyncRecord
		if r, ok := store.Get(path); ok {
			rec = &r
		}

		entry := types.PlanEntry{
			Path:                path,
			Disposition:         diff.Classify(rec, localFP, upstreamFP),
			LocalFingerprint:    localFP,
			UpstreamFingerprint: upstreamFP,
		}
		if rec != nil {
			entry.StateFingerprint = rec.UpstreamFingerprint
		}
		if prov, ok := res.Files.Provenance(path); ok {
			entry.Provenance = prov
		}
		plan.Entries = append(plan.Entries, entry)
	}

	deletes, err := s.deleteCandidates(store, res.Files)
	if err != nil {
		return nil, err
	}
	plan.Entries = append(plan.Entries, deletes...)

	s.logger.Info().
		Str("ref", s.cfg.SourceRef).
		Int("entries", len(plan.Entries)).
		Msg("plan computed")

	return &Run{Plan: plan, Snapshot: snap, Store: store, Resolution: res}, nil
}

// deleteCandidates finds tracked paths that were explicitly dropped from
// the desired file-set. A record becomes a delete candidate only when its
// path matches an exclude pattern; a path merely absent from one run's
// resolution stays tracked and untouched, so a transient misconfiguration
// cannot cascade into deletions.
func (s *Syncer) deleteCandidates(store *state.Store, desired *types.ResolvedFileSet) ([]types.PlanEntry, error) {
	var out []types.PlanEntry

	for _, path := range store.Paths() {
		if desired.Contains(path) {
			continue
		}
		excluded, err := patterns.MatchAny(s.cfg.Exclude, path)
		if err != nil {
			return nil, err
		}
		if !excluded {
			continue
		}

		rec, _ := store.Get(path)
		localFP, err := fingerprint.File(s.fs, filepath.Join(s.projectRoot, filepath.FromSlash(path)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to fingerprint local file %s", path)
		}

		out = append(out, types.PlanEntry{
			Path:             path,
			Disposition:      types.DispositionDeleteCandidate,
			StateFingerprint: rec.UpstreamFingerprint,
			LocalFingerprint: localFP,
		})
	}
	return out, nil
}

// Apply materializes a previously computed Run under the run lock
func (s *Syncer) Apply(ctx context.Context, run *Run, policy types.ConflictPolicy,
	chooser types.ConflictChooser) (*materialize.Result, error) {

	unlock, err := s.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.applyLocked(ctx, run, policy, chooser)
}

// Sync is the whole run: lock, plan, apply, unlock. The lock is held
// before planning so the plan cannot go stale under a concurrent run.
func (s *Syncer) Sync(ctx context.Context, policy types.ConflictPolicy,
	chooser types.ConflictChooser) (*Run, *materialize.Result, error) {

	unlock, err := s.acquireLock()
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	run, err := s.Plan(ctx)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.applyLocked(ctx, run, policy, chooser)
	return run, result, err
}

func (s *Syncer) applyLocked(ctx context.Context, run *Run, policy types.ConflictPolicy,
	chooser types.ConflictChooser) (*materialize.Result, error) {
	m := materialize.New(s.fs, s.projectRoot, s.hooks)
	return m.Apply(ctx, run.Plan, run.Snapshot, run.Store, policy, chooser)
}

// acquireLock takes the exclusive run lock, creating the state directory
// first so the lock file has somewhere to live. Release is guaranteed on
// all exit paths via the returned function.
func (s *Syncer) acquireLock() (func(), error) {
	if err := s.fs.MkdirAll(paths.StateDir(s.projectRoot), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "failed to create state directory")
	}
	if err := s.locker.TryLock(); err != nil {
		return nil, err
	}
	return func() {
		if err := s.locker.Unlock(); err != nil {
			s.logger.Error().Err(err).Msg("failed to release run lock")
		}
	}, nil
}
