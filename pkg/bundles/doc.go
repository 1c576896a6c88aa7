// Package bundles models the named file bundles of a template origin and
// their dependency relations. The graph of hard requires must be acyclic;
// expansion returns the selected bundles plus all transitive requires plus
// the implicit core bundle. Soft recommendations are advisory only and are
// never auto-included.
package bundles
