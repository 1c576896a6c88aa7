package types

import "time"

// Disposition is the per-file classification result driving the
// materialization action.
type Disposition string

const (
	// DispositionCreate means the path does not exist locally yet
	DispositionCreate Disposition = "create"

	// DispositionUpdateClean means the local file is untouched since the
	// last sync and the new upstream content can be taken safely
	DispositionUpdateClean Disposition = "update-clean"

	// DispositionUpdateConflict means local and upstream both diverged
	// from the last-synced content, or an untracked local file collides
	// with a newly-claimed path
	DispositionUpdateConflict Disposition = "update-conflict"

	// DispositionSkipUnchanged means no action is needed for the path
	DispositionSkipUnchanged Disposition = "skip-unchanged"

	// DispositionDeleteCandidate means the path was explicitly dropped
	// from the desired file-set by policy
	DispositionDeleteCandidate Disposition = "delete-candidate"
)

// ConflictPolicy governs how update-conflict entries are handled on apply
type ConflictPolicy string

const (
	// PolicyKeepLocal skips conflicting paths, preserving local content
	PolicyKeepLocal ConflictPolicy = "keep-local"

	// PolicyTakeUpstream overwrites conflicting paths with upstream content
	PolicyTakeUpstream ConflictPolicy = "take-upstream"

	// PolicyFail aborts the whole run if any conflict exists
	PolicyFail ConflictPolicy = "fail"

	// PolicyInteractive defers each conflict to an external chooser
	PolicyInteractive ConflictPolicy = "interactive"
)

// ParseConflictPolicy validates a policy name from config or CLI flags
func ParseConflictPolicy(s string) (ConflictPolicy, bool) {
	switch ConflictPolicy(s) {
	case PolicyKeepLocal, PolicyTakeUpstream, PolicyFail, PolicyInteractive:
		return ConflictPolicy(s), true
	}
	return "", false
}

// ConflictChoice is the outcome of resolving a single conflict
type ConflictChoice string

const (
	ChoiceKeepLocal    ConflictChoice = "keep-local"
	ChoiceTakeUpstream ConflictChoice = "take-upstream"
)

// ConflictChooser resolves a single update-conflict entry under the
// interactive policy. The core exposes this callback boundary; UI lives
// with the caller.
type ConflictChooser func(entry PlanEntry) (ConflictChoice, error)

// SyncRecord is the persisted record, per path, of the last-known upstream
// content fingerprint and reference.
type SyncRecord struct {
	Path                string    `yaml:"path"`
	UpstreamFingerprint string    `yaml:"upstream_fingerprint"`
	SourceRef           string    `yaml:"source_ref"`
	SyncedAt            time.Time `yaml:"synced_at"`
}

// PlanEntry is the per-path element of a SyncPlan
type PlanEntry struct {
	// Path is the project-relative path
	Path string

	// Disposition is the classification result for the path
	Disposition Disposition

	// Provenance records which bundles or includes claimed the path.
	// Empty for delete candidates.
	Provenance Provenance

	// StateFingerprint is the last-synced upstream fingerprint, empty if
	// the path was never synced
	StateFingerprint string

	// LocalFingerprint is the current local content fingerprint, empty if
	// the file does not exist
	LocalFingerprint string

	// UpstreamFingerprint is the fingerprint of the new upstream content.
	// Empty for delete candidates.
	UpstreamFingerprint string
}

// SyncPlan is the ephemeral, per-run ordered list of dispositions. It is
// never persisted; it is fully recomputed each run from the state store,
// the filesystem and the upstream snapshot.
type SyncPlan struct {
	// SourceRef is the upstream reference the plan was computed against
	SourceRef string

	// Entries are ordered by path
	Entries []PlanEntry
}

// Conflicts returns the update-conflict entries of the plan
func (p *SyncPlan) Conflicts() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.Disposition == DispositionUpdateConflict {
			out = append(out, e)
		}
	}
	return out
}

// HasChanges reports whether any entry requires a materialization action
func (p *SyncPlan) HasChanges() bool {
	for _, e := range p.Entries {
		if e.Disposition != DispositionSkipUnchanged {
			return true
		}
	}
	return false
}

// CountByDisposition tallies plan entries per disposition
func (p *SyncPlan) CountByDisposition() map[Disposition]int {
	counts := make(map[Disposition]int)
	for _, e := range p.Entries {
		counts[e.Disposition]++
	}
	return counts
}
