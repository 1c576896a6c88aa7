package bundles

import (
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/patterns"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrNotImplemented, "rawBytesProvider supports ReadBytes only")
}

// knownBundleKeys are the only keys a bundle definition may carry
var knownBundleKeys = map[string]bool{
	"description": true,
	"patterns":    true,
	"requires":    true,
	"recommends":  true,
}

// bundleDef mirrors the on-disk bundle definition format
type bundleDef struct {
	Description string   `koanf:"description"`
	Patterns    []string `koanf:"patterns"`
	Requires    []string `koanf:"requires"`
	Recommends  []string `koanf:"recommends"`
}

// Load parses bundle definitions from the template origin's bundles.yaml
// content. The format is a mapping from bundle id to
// {description, patterns, requires, recommends}. Unknown keys, missing
// bundle references and malformed patterns are all surfaced here, at the
// boundary, as a single error rather than deferred runtime failures.
func Load(data []byte) (*Graph, error) {
	logger := logging.GetLogger("bundles.load")

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse bundle definitions")
	}

	raw := k.Raw()
	defs := make(map[types.BundleID]types.Bundle, len(raw))

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		body, ok := raw[id].(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid,
				"bundle %q must be a mapping", id)
		}
		for key := range body {
			if !knownBundleKeys[key] {
				return nil, errors.Newf(errors.ErrConfigValid,
					"bundle %q has unknown key %q", id, key)
			}
		}

		var def bundleDef
		if err := k.Unmarshal(id, &def); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid,
				"bundle %q has a malformed definition", id)
		}
		if err := patterns.ValidateAll(def.Patterns); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid,
				"bundle %q has an invalid pattern", id)
		}

		bundle := types.Bundle{
			ID:          types.BundleID(id),
			Patterns:    def.Patterns,
			Description: def.Description,
		}
		for _, req := range def.Requires {
			bundle.Requires = append(bundle.Requires, types.BundleID(req))
		}
		for _, rec := range def.Recommends {
			bundle.Recommends = append(bundle.Recommends, types.BundleID(rec))
		}
		defs[bundle.ID] = bundle
	}

	graph, err := NewGraph(defs)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("bundleCount", len(defs)).Msg("loaded bundle definitions")
	return graph, nil
}
