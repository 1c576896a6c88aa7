// Package sync is the outward contract of the core: Plan computes a
// SyncPlan without side effects, Apply materializes one under an exclusive
// per-project run lock. The CLI and automation drive everything through
// this package.
package sync
