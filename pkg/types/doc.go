// Package types defines the core types and interfaces used throughout
// tmplsync. This includes the capability interfaces for ContentSource,
// HookRunner and FS, as well as data structures like Bundle, SyncRecord,
// SyncPlan and ResolvedFileSet.
package types
