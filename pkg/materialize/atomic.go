package materialize

import (
	"path/filepath"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// tmpSuffix marks in-flight writes; a crashed run leaves at most these
// behind, never a half-written target file
const tmpSuffix = ".tmplsync-tmp"

// WriteFileAtomic writes content to a scoped temporary path in the target
// directory, then renames it over the target. An interruption before the
// rename leaves the original file (or its absence) untouched.
func WriteFileAtomic(fsys types.FS, target string, content []byte) error {
	dir := filepath.Dir(target)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir)
	}

	tmp := target + tmpSuffix
	if err := fsys.WriteFile(tmp, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write temporary file for %s", target)
	}

	if err := fsys.Rename(tmp, target); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to move %s into place", target)
	}
	return nil
}
