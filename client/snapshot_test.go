package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onenightdrink/api/internal/domain"
)

func TestSaveAndLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	snap := Snapshot{
		Version: SnapshotVersion,
		Token:   "session-token",
		User:    &domain.User{ID: "user-1", Email: "mei@example.com", Name: "Mei"},
		Bars:    []domain.Bar{{ID: "bar-1", Name: "Moonshine"}},
		ActivePasses: []domain.Pass{{
			ID:         "pass-1",
			UserID:     "user-1",
			BarID:      "bar-1",
			IsActive:   true,
			ExpiryTime: time.Now().Add(24 * time.Hour),
		}},
		SavedAt: time.Now(),
	}
	require.NoError(t, SaveSnapshot(dir, snap))

	loaded, err := LoadSnapshot(dir)
	require.NoError(t, err)
	require.Equal(t, "session-token", loaded.Token)
	require.Equal(t, "user-1", loaded.User.ID)
	require.Len(t, loaded.ActivePasses, 1)
}

func TestLoadSnapshotMissing(t *testing.T) {
	_, err := LoadSnapshot(t.TempDir())
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadSnapshotLegacyKey(t *testing.T) {
	dir := t.TempDir()

	legacy := map[string]any{
		"version": 1,
		"state": map[string]any{
			"token": "old-session",
			"currentUser": map[string]any{
				"id":    "user-1",
				"email": "mei@example.com",
				"name":  "Mei",
			},
			"activePasses": []map[string]any{{
				"id":         "pass-1",
				"userId":     "user-1",
				"barId":      "bar-1",
				"isActive":   true,
				"expiryTime": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			}},
		},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yumyum-storage.json"), raw, 0o600))

	loaded, err := LoadSnapshot(dir)
	require.NoError(t, err)
	require.Equal(t, SnapshotVersion, loaded.Version)
	require.Equal(t, "old-session", loaded.Token)
	require.Equal(t, "user-1", loaded.User.ID)
	require.Len(t, loaded.ActivePasses, 1)
}

func TestMigrateIsPure(t *testing.T) {
	raw := []byte(`{"version":1,"state":{"token":"abc","currentUser":{"id":"user-1"}}}`)

	v1, out1, err := migrate(1, raw)
	require.NoError(t, err)
	v2, out2, err := migrate(1, raw)
	require.NoError(t, err)

	require.Equal(t, v1, v2)
	require.JSONEq(t, string(out1), string(out2))
	require.Equal(t, 2, v1)
}

func TestMigrateUnknownVersion(t *testing.T) {
	_, _, err := migrate(99, []byte(`{}`))
	require.Error(t, err)
}

func TestRestoreDropsExpiredPasses(t *testing.T) {
	store := NewStore(New("http://localhost:8080"))

	store.Restore(Snapshot{
		Version: SnapshotVersion,
		Token:   "session-token",
		User:    &domain.User{ID: "user-1"},
		ActivePasses: []domain.Pass{
			{ID: "live", IsActive: true, ExpiryTime: time.Now().Add(time.Hour)},
			{ID: "expired", IsActive: true, ExpiryTime: time.Now().Add(-time.Hour)},
			{ID: "revoked", IsActive: false, ExpiryTime: time.Now().Add(time.Hour)},
		},
	})

	require.True(t, store.Authenticated())
	passes := store.ActivePasses()
	require.Len(t, passes, 1)
	require.Equal(t, "live", passes[0].ID)
}
