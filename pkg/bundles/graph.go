package bundles

import (
	"sort"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// Graph is an immutable directed graph of bundles indexed by id. The edge
// relation is the hard "requires" dependency; soft recommendations are kept
// alongside but are not edges for expansion purposes.
type Graph struct {
	bundles map[types.BundleID]types.Bundle
}

// NewGraph builds a Graph from bundle definitions. It validates that the
// distinguished core bundle exists and that every requires/recommends
// reference points at a defined bundle.
func NewGraph(defs map[types.BundleID]types.Bundle) (*Graph, error) {
	if _, ok := defs[types.CoreBundleID]; !ok {
		return nil, errors.Newf(errors.ErrBundleInvalid,
			"bundle definitions must include the %q bundle", types.CoreBundleID)
	}

	for _, bundle := range defs {
		for _, req := range bundle.Requires {
			if _, ok := defs[req]; !ok {
				return nil, errors.Newf(errors.ErrBundleUnknown,
					"bundle %q requires undefined bundle %q", bundle.ID, req)
			}
		}
		for _, rec := range bundle.Recommends {
			if _, ok := defs[rec]; !ok {
				return nil, errors.Newf(errors.ErrBundleUnknown,
					"bundle %q recommends undefined bundle %q", bundle.ID, rec)
			}
		}
	}

	return &Graph{bundles: defs}, nil
}

// Get returns a bundle by id
func (g *Graph) Get(id types.BundleID) (types.Bundle, bool) {
	b, ok := g.bundles[id]
	return b, ok
}

// IDs returns all bundle ids in sorted order
func (g *Graph) IDs() []types.BundleID {
	ids := make([]types.BundleID, 0, len(g.bundles))
	for id := range g.bundles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Expansion is the result of expanding a bundle selection
type Expansion struct {
	// Selected contains the selected bundles, their transitive hard
	// requires, and the implicit core bundle, sorted by id
	Selected []types.BundleID

	// Recommended is the advisory set: bundles recommended by any
	// expanded bundle but not themselves expanded, sorted by id. They
	// inform UI prompts only and are never auto-included.
	Recommended []types.BundleID
}

// Expand returns the selected bundles plus all transitive hard dependencies
// plus the implicit core bundle. It fails with a BUNDLE_UNKNOWN error when
// the selection references an undefined bundle, and with a BUNDLE_CYCLE
// error carrying the full cycle path when the requires relation is cyclic.
func (g *Graph) Expand(selected []types.BundleID) (*Expansion, error) {
	logger := logging.GetLogger("bundles.graph")

	for _, id := range selected {
		if _, ok := g.bundles[id]; !ok {
			return nil, errors.Newf(errors.ErrBundleUnknown,
				"selection references undefined bundle %q", id)
		}
	}

	// DFS with a recursion stack: a vertex revisited while still on the
	// stack constitutes a cycle, reported with the full cycle path.
	visited := make(map[types.BundleID]bool)
	onStack := make(map[types.BundleID]bool)
	var stack []types.BundleID

	var visit func(id types.BundleID) error
	visit = func(id types.BundleID) error {
		if onStack[id] {
			return errors.Newf(errors.ErrBundleCycle,
				"bundle dependency cycle: %s", formatCycle(stack, id)).
				WithDetail("cycle", cyclePath(stack, id))
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, req := range g.bundles[id].Requires {
			if err := visit(req); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
		return nil
	}

	roots := append([]types.BundleID{types.CoreBundleID}, selected...)
	for _, id := range roots {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	expansion := &Expansion{}
	for id := range visited {
		expansion.Selected = append(expansion.Selected, id)
	}
	sort.Slice(expansion.Selected, func(i, j int) bool {
		return expansion.Selected[i] < expansion.Selected[j]
	})

	recommended := make(map[types.BundleID]bool)
	for id := range visited {
		for _, rec := range g.bundles[id].Recommends {
			if !visited[rec] {
				recommended[rec] = true
			}
		}
	}
	for id := range recommended {
		expansion.Recommended = append(expansion.Recommended, id)
	}
	sort.Slice(expansion.Recommended, func(i, j int) bool {
		return expansion.Recommended[i] < expansion.Recommended[j]
	})

	logger.Debug().
		Int("selected", len(selected)).
		Int("expanded", len(expansion.Selected)).
		Int("recommended", len(expansion.Recommended)).
		Msg("expanded bundle selection")

	return expansion, nil
}

// cyclePath extracts the offending cycle from the recursion stack
func cyclePath(stack []types.BundleID, repeat types.BundleID) []string {
	start := 0
	for i, id := range stack {
		if id == repeat {
			start = i
			break
		}
	}
	var out []string
	for _, id := range stack[start:] {
		out = append(out, string(id))
	}
	return append(out, string(repeat))
}

func formatCycle(stack []types.BundleID, repeat types.BundleID) string {
	path := cyclePath(stack, repeat)
	s := ""
	for i, id := range path {
		if i > 0 {
			s += " -> "
		}
		s += id
	}
	return s
}
