// Package resolver computes the desired file-set for a synchronization run
// from the bundle graph, the project's bundle selection, and free-form
// include/exclude patterns.
package resolver

import (
	"github.com/arthur-debert/tmplsync/pkg/bundles"
	"github.com/arthur-debert/tmplsync/pkg/config"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/patterns"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// Result bundles the resolved file-set with the expansion that produced it,
// so callers can surface the advisory recommendations.
type Result struct {
	Files     *types.ResolvedFileSet
	Expansion *bundles.Expansion
}

// Resolve computes the desired file-set. The algorithm: expand the bundle
// selection, match each expanded bundle's owned patterns and the free-form
// includes against the upstream listing, then subtract every path matched
// by an exclude pattern. The result is a set: deterministic for identical
// inputs and independent of evaluation order. Exclude patterns win over
// include patterns and bundle membership, regardless of source.
func Resolve(graph *bundles.Graph, cfg *config.Config, listing []string) (*Result, error) {
	logger := logging.GetLogger("resolver")

	expansion, err := graph.Expand(cfg.SelectedBundles)
	if err != nil {
		return nil, err
	}

	files := types.NewResolvedFileSet()

	for _, id := range expansion.Selected {
		bundle, _ := graph.Get(id)
		for _, pattern := range bundle.Patterns {
			matched, err := patterns.Filter(listing, pattern)
			if err != nil {
				return nil, err
			}
			for _, path := range matched {
				files.AddBundleMatch(path, id)
			}
		}
	}

	for _, pattern := range cfg.Include {
		matched, err := patterns.Filter(listing, pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range matched {
			files.AddFreeInclude(path)
		}
	}

	for _, path := range files.Paths() {
		excluded, err := patterns.MatchAny(cfg.Exclude, path)
		if err != nil {
			return nil, err
		}
		if excluded {
			files.Remove(path)
		}
	}

	logger.Debug().
		Int("listing", len(listing)).
		Int("resolved", files.Len()).
		Int("bundles", len(expansion.Selected)).
		Msg("resolved desired file-set")

	return &Result{Files: files, Expansion: expansion}, nil
}
