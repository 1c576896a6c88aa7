package types

// BundleID is the unique identifier of a bundle
type BundleID string

// CoreBundleID is the distinguished bundle that is implicitly a hard
// dependency of every other bundle and is always included.
const CoreBundleID BundleID = "core"

// Bundle is a named, versioned set of file-ownership patterns plus
// dependency relations. Bundles are defined once per template version and
// are immutable for the duration of a resolution.
type Bundle struct {
	// ID is the unique bundle identifier
	ID BundleID

	// Patterns are the file-path patterns this bundle owns
	Patterns []string

	// Requires are hard dependencies, always pulled in transitively
	Requires []BundleID

	// Recommends are soft recommendations, surfaced as advisories only
	Recommends []BundleID

	// Description is a human-readable summary of the bundle
	Description string
}
