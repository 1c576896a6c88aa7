package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface required for tmplsync operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// ContentSource is the capability to list and fetch file content from the
// template origin at a given reference. The core never performs network or
// process operations directly; implementations own transport and timeouts.
type ContentSource interface {
	// List returns all project-relative paths available at the given ref
	List(ctx context.Context, ref string) ([]string, error)

	// Fetch returns the content of a single path at the given ref
	Fetch(ctx context.Context, ref string, path string) ([]byte, error)
}

// HookPhase identifies a materialization lifecycle point
type HookPhase string

const (
	HookPre  HookPhase = "pre"
	HookPost HookPhase = "post"
)

// HookContext carries run information to hook collaborators
type HookContext struct {
	// ProjectRoot is the directory being synced into
	ProjectRoot string

	// SourceRef is the upstream reference being applied
	SourceRef string

	// Paths are the project-relative paths the run will touch
	Paths []string
}

// HookRunner is the capability to run pre/post materialization hooks.
// Hooks are invoked once for the whole run, not per file.
type HookRunner interface {
	Run(ctx context.Context, phase HookPhase, hctx HookContext) error
}
