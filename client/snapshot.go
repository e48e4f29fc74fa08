package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onenightdrink/api/internal/domain"
)

const (
	// SnapshotVersion is the current on-disk format.
	SnapshotVersion = 2

	storageFile       = "onenightdrink-storage.json"
	legacyStorageFile = "yumyum-storage.json"
)

var ErrNoSnapshot = errors.New("no snapshot found")

// Snapshot is the persisted slice of store state: the session plus the
// cached lists worth showing before the first refresh completes.
type Snapshot struct {
	Version int `json:"version"`

	Token        string        `json:"token,omitempty"`
	User         *domain.User  `json:"user,omitempty"`
	Bars         []domain.Bar  `json:"bars,omitempty"`
	ActivePasses []domain.Pass `json:"activePasses,omitempty"`

	SavedAt time.Time `json:"savedAt"`
}

// Snapshot captures the persistable slice of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Version:      SnapshotVersion,
		Token:        s.token,
		User:         s.currentUser,
		Bars:         append([]domain.Bar(nil), s.bars...),
		ActivePasses: append([]domain.Pass(nil), s.activePasses...),
		SavedAt:      time.Now(),
	}
}

// Restore loads a snapshot into the store. Expired passes are dropped at
// read time rather than trusted from disk.
func (s *Store) Restore(snap Snapshot) {
	now := time.Now()
	passes := make([]domain.Pass, 0, len(snap.ActivePasses))
	for _, p := range snap.ActivePasses {
		if p.Valid(now) {
			passes = append(passes, p)
		}
	}

	s.client.SetToken(snap.Token)

	s.mu.Lock()
	s.token = snap.Token
	s.currentUser = snap.User
	s.bars = snap.Bars
	s.activePasses = passes
	s.mu.Unlock()
}

// SaveSnapshot writes the snapshot into dir under the current storage name.
func SaveSnapshot(dir string, snap Snapshot) error {
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent -> %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, storageFile), encoded, 0o600); err != nil {
		return fmt.Errorf("os.WriteFile -> %w", err)
	}

	return nil
}

// LoadSnapshot reads the snapshot from dir, falling back to the legacy
// storage name and upgrading old formats through the migration chain.
func LoadSnapshot(dir string) (Snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(dir, storageFile))
	if errors.Is(err, os.ErrNotExist) {
		raw, err = os.ReadFile(filepath.Join(dir, legacyStorageFile))
	}
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("os.ReadFile -> %w", err)
	}

	var versioned struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &versioned); err != nil {
		return Snapshot{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	version := versioned.Version
	for version < SnapshotVersion {
		version, raw, err = migrate(version, raw)
		if err != nil {
			return Snapshot{}, err
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	snap.Version = SnapshotVersion

	return snap, nil
}

// migrate upgrades raw by exactly one version step. It is pure: no I/O,
// same input yields same output.
func migrate(version int, raw []byte) (int, []byte, error) {
	switch version {
	case 0, 1:
		// The legacy web store persisted a {state: {...}, version: n}
		// envelope with the session under "state". Unwrap it.
		var legacy struct {
			State struct {
				Token        string        `json:"token"`
				CurrentUser  *domain.User  `json:"currentUser"`
				Bars         []domain.Bar  `json:"bars"`
				ActivePasses []domain.Pass `json:"activePasses"`
			} `json:"state"`
		}
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return 0, nil, fmt.Errorf("snapshot migrate v%d -> %w", version, err)
		}

		upgraded, err := json.Marshal(Snapshot{
			Version:      2,
			Token:        legacy.State.Token,
			User:         legacy.State.CurrentUser,
			Bars:         legacy.State.Bars,
			ActivePasses: legacy.State.ActivePasses,
		})
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot migrate v%d -> %w", version, err)
		}

		return 2, upgraded, nil
	default:
		return 0, nil, fmt.Errorf("unsupported snapshot version %d", version)
	}
}
