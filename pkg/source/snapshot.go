package source

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/fingerprint"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// fetchConcurrency bounds parallel fetches against a content source
const fetchConcurrency = 8

// Snapshot is the consistent upstream view for one run: the content and
// fingerprint of every path in the desired file-set, fully fetched before
// planning begins so diff classification never sees a torn upstream.
type Snapshot struct {
	// Ref is the upstream reference the snapshot was taken at
	Ref string

	contents     map[string][]byte
	fingerprints map[string]string
}

// Content returns the upstream bytes for a path
func (s *Snapshot) Content(path string) ([]byte, bool) {
	data, ok := s.contents[path]
	return data, ok
}

// Fingerprint returns the upstream content fingerprint for a path
func (s *Snapshot) Fingerprint(path string) (string, bool) {
	fp, ok := s.fingerprints[path]
	return fp, ok
}

// Take fetches every path of the desired set from the content source at
// ref. Fetches are independent reads and run in parallel; any single
// failure fails the whole snapshot, since a partial upstream view must
// never reach planning.
func Take(ctx context.Context, src types.ContentSource, ref string, paths []string) (*Snapshot, error) {
	logger := logging.GetLogger("source.snapshot")
	done := logging.LogOperationStart(logger, "snapshot")
	defer done()

	snap := &Snapshot{
		Ref:          ref,
		contents:     make(map[string][]byte, len(paths)),
		fingerprints: make(map[string]string, len(paths)),
	}

	results := make([][]byte, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := src.Fetch(gctx, ref, path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrSourceFetch,
					"failed to fetch %s at ref %q", path, ref)
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, path := range paths {
		snap.contents[path] = results[i]
		snap.fingerprints[path] = fingerprint.Bytes(results[i])
	}

	logger.Debug().Str("ref", ref).Int("files", len(paths)).Msg("upstream snapshot complete")
	return snap, nil
}
