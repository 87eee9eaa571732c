package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"cratepricer/internal/model"
)

// The whole collection lives as one serialized array under this key,
// read-whole/write-whole only. No partial updates.
const collectionKey = "vinyl_collection"

// ErrCorruptSnapshot means the file on disk could not be parsed. The
// returned collection is empty but usable; the caller should surface a
// non-blocking warning rather than abort.
var ErrCorruptSnapshot = errors.New("store: corrupt collection snapshot")

// Store persists the collection as a single JSON key-value snapshot.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the whole collection. A missing file is an empty collection;
// a corrupt one returns (empty, ErrCorruptSnapshot).
func (s *Store) Load() ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Item{}, nil
		}
		return []model.Item{}, fmt.Errorf("read collection: %w", err)
	}
	if len(data) == 0 {
		return []model.Item{}, nil
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return []model.Item{}, ErrCorruptSnapshot
	}

	raw, ok := snapshot[collectionKey]
	if !ok {
		return []model.Item{}, nil
	}

	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return []model.Item{}, ErrCorruptSnapshot
	}
	return items, nil
}

// Save overwrites the entire collection snapshot. Last write wins.
func (s *Store) Save(items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	snapshot := map[string]json.RawMessage{collectionKey: raw}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create collection dir: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0644)
}

// NewItemID mints an identifier for a freshly created item.
func NewItemID() string {
	return uuid.New().String()
}
