// Package diff implements the three-way comparison among last-synced
// upstream content, current local content, and new upstream content.
//
// The classification guarantees two things: a local edit is never
// overwritten unless upstream is unchanged relative to what was previously
// synced, and a concurrent upstream change is never silently discarded.
package diff

import "github.com/arthur-debert/tmplsync/pkg/types"

// Classify produces the disposition for one path. Fingerprints are content
// digests; an empty localFingerprint means the file does not exist locally,
// and a nil stateRecord means the path was never synced.
//
//	local exists | state exists | local==state | upstream==state | result
//	no           | any          | -            | -               | create
//	yes          | no           | -            | -               | update-conflict
//	yes          | yes          | yes          | yes             | skip-unchanged
//	yes          | yes          | yes          | no              | update-clean
//	yes          | yes          | no           | yes             | skip-unchanged
//	yes          | yes          | no           | no              | update-conflict
func Classify(stateRecord *types.SyncRecord, localFingerprint, upstreamFingerprint string) types.Disposition {
	if localFingerprint == "" {
		return types.DispositionCreate
	}

	if stateRecord == nil {
		// Untracked local file colliding with a newly-claimed path
		return types.DispositionUpdateConflict
	}

	localClean := localFingerprint == stateRecord.UpstreamFingerprint
	upstreamMoved := upstreamFingerprint != stateRecord.UpstreamFingerprint

	switch {
	case localClean && !upstreamMoved:
		return types.DispositionSkipUnchanged
	case localClean && upstreamMoved:
		return types.DispositionUpdateClean
	case !localClean && !upstreamMoved:
		// Local diverged but upstream hasn't moved; leaving the file
		// as-is carries no data loss risk
		return types.DispositionSkipUnchanged
	default:
		return types.DispositionUpdateConflict
	}
}
