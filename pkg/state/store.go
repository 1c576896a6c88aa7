package state

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// formatVersion guards against future layout changes of the state file
const formatVersion = 1

// Store is the in-memory representation of the persisted sync state
type Store struct {
	records map[string]types.SyncRecord
}

// fileFormat mirrors the on-disk YAML layout
type fileFormat struct {
	Version int                `yaml:"version"`
	Files   []types.SyncRecord `yaml:"files"`
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{records: make(map[string]types.SyncRecord)}
}

// Load reads the state file. A missing file yields an empty store: a
// project that has never synced has no state yet.
func Load(fsys types.FS, path string) (*Store, error) {
	logger := logging.GetLogger("state")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("no state file, starting empty")
			return NewStore(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrStateLoad, "failed to read state file %s", path)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateLoad, "failed to parse state file %s", path)
	}
	if ff.Version != 0 && ff.Version != formatVersion {
		return nil, errors.Newf(errors.ErrStateLoad,
			"unsupported state file version %d in %s", ff.Version, path)
	}

	store := NewStore()
	for _, rec := range ff.Files {
		store.records[rec.Path] = rec
	}

	logger.Debug().Str("path", path).Int("records", len(store.records)).Msg("state loaded")
	return store, nil
}

// Save writes the state file, records sorted by path
func (s *Store) Save(fsys types.FS, path string) error {
	ff := fileFormat{Version: formatVersion, Files: s.Records()}

	data, err := yaml.Marshal(&ff)
	if err != nil {
		return errors.Wrap(err, errors.ErrStateSave, "failed to marshal state")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create state directory for %s", path)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateSave, "failed to write state file %s", path)
	}
	return nil
}

// Get returns the record for a path, if the path was ever synced
func (s *Store) Get(path string) (types.SyncRecord, bool) {
	rec, ok := s.records[path]
	return rec, ok
}

// Set creates or updates the record for a path
func (s *Store) Set(rec types.SyncRecord) {
	s.records[rec.Path] = rec
}

// Delete removes the record for a path. Records are deleted only when a
// path is explicitly dropped from the desired file-set by policy, never
// because one run's resolution happened to omit it.
func (s *Store) Delete(path string) {
	delete(s.records, path)
}

// Records returns all records sorted by path
func (s *Store) Records() []types.SyncRecord {
	out := make([]types.SyncRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Paths returns all tracked paths sorted
func (s *Store) Paths() []string {
	out := make([]string, 0, len(s.records))
	for path := range s.records {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of tracked paths
func (s *Store) Len() int {
	return len(s.records)
}

// Clone returns an independent copy of the store. Apply mutates a clone
// and persists it only on success, leaving the caller's store untouched.
func (s *Store) Clone() *Store {
	clone := NewStore()
	for path, rec := range s.records {
		clone.records[path] = rec
	}
	return clone
}
