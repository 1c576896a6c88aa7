// Package state owns the persisted synchronization state: one record per
// synced path holding the fingerprint of the upstream content as of the
// last successful sync and the reference it came from.
//
// The on-disk format is YAML, ordered by path, because the state file sits
// in the project's own version control and must be human-diffable. The
// store is passed into and returned from the planning functions as an
// explicit value; there is no module-level singleton.
package state
