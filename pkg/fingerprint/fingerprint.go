// Package fingerprint computes content-addressable digests of file content.
// All equality comparisons in tmplsync go through fingerprints, never raw
// byte comparison, so results are unaffected by incidental materialization
// details.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/arthur-debert/tmplsync/pkg/types"
)

// Bytes calculates the SHA256 fingerprint of a byte slice
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}

// File calculates the SHA256 fingerprint of a file's content. It returns
// an empty fingerprint and no error when the file does not exist, since an
// absent file is a valid state for diff classification.
func File(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return Bytes(data), nil
}
