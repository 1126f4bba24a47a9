package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"pizzeria-service/models"
)

// RecordVersion is the layout version written by Save.
const RecordVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported state record version")

// Record is everything a storefront keeps between sessions, in one place.
type Record struct {
	Version          int               `json:"version"`
	User             *models.User      `json:"user,omitempty"`
	Cart             []models.CartItem `json:"cart"`
	Notes            string            `json:"notes"`
	HeaderBackground string            `json:"headerBackground,omitempty"`
	StreamURL        string            `json:"streamUrl,omitempty"`
	Favorites        []string          `json:"favorites"`
	HighScore        int64             `json:"highScore"`
}

func emptyRecord() Record {
	return Record{Version: RecordVersion, Cart: []models.CartItem{}, Favorites: []string{}}
}

// Legacy keys written by the first releases, one string value each.
const (
	legacyUser      = "kd_user"
	legacyCart      = "kd_cart"
	legacyNotes     = "kd_notes"
	legacyHeaderBg  = "kd_header_bg"
	legacyStreamURL = "kd_stream_url"
	legacyFavorites = "kd_favorites"
	legacyHighScore = "kd_snake_highscore"
)

// FromLegacy builds a Record from the old flat key/value layout. Values that
// fail to decode are dropped rather than failing the migration.
func FromLegacy(kv map[string]string) Record {
	rec := emptyRecord()
	if raw := kv[legacyUser]; raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil && u.Phone != "" {
			if u.Level == "" {
				u.Level = models.LevelBronze
			}
			rec.User = &u
		}
	}
	if raw := kv[legacyCart]; raw != "" {
		var items []models.CartItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil && items != nil {
			rec.Cart = items
		}
	}
	if raw := kv[legacyFavorites]; raw != "" {
		var favs []string
		if err := json.Unmarshal([]byte(raw), &favs); err == nil && favs != nil {
			rec.Favorites = favs
		}
	}
	if n, err := strconv.ParseInt(kv[legacyHighScore], 10, 64); err == nil {
		rec.HighScore = n
	}
	rec.Notes = kv[legacyNotes]
	rec.HeaderBackground = kv[legacyHeaderBg]
	rec.StreamURL = kv[legacyStreamURL]
	return rec
}

// StateStore loads and saves the storefront record.
type StateStore interface {
	Load() (Record, error)
	Save(rec Record) error
}

// FileState keeps the record as a JSON file.
type FileState struct {
	path string
}

func NewFileState(path string) *FileState {
	return &FileState{path: path}
}

// Load returns an empty record when the file does not exist yet. A file in
// the legacy flat layout is migrated on the fly.
func (f *FileState) Load() (Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyRecord(), nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("read state %s: %w", f.path, err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Record{}, fmt.Errorf("decode state %s: %w", f.path, err)
	}
	if _, ok := probe["version"]; !ok {
		var kv map[string]string
		if err := json.Unmarshal(data, &kv); err != nil {
			return Record{}, fmt.Errorf("decode legacy state %s: %w", f.path, err)
		}
		return FromLegacy(kv), nil
	}

	rec := emptyRecord()
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode state %s: %w", f.path, err)
	}
	if rec.Version != RecordVersion {
		return Record{}, fmt.Errorf("%s: version %d: %w", f.path, rec.Version, ErrUnsupportedVersion)
	}
	if rec.Cart == nil {
		rec.Cart = []models.CartItem{}
	}
	if rec.Favorites == nil {
		rec.Favorites = []string{}
	}
	return rec, nil
}

// Save writes the record atomically through a temporary file in the same
// directory.
func (f *FileState) Save(rec Record) error {
	rec.Version = RecordVersion
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state %s: %w", f.path, err)
	}
	return nil
}

// memState is a StateStore for callers that do not persist anything.
type memState struct {
	rec Record
}

func (m *memState) Load() (Record, error) {
	if m.rec.Version == 0 {
		return emptyRecord(), nil
	}
	return m.rec, nil
}

func (m *memState) Save(rec Record) error {
	m.rec = rec
	return nil
}
