package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	f, err := NewFile("  Payment  Gateway ", "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "payment-gateway", f.Service)
	assert.Equal(t, "[RELEASE] payment-gateway-1.2.3.txt", f.Name)
	assert.Equal(t, "payment-gateway:1.2.3", f.Content)
}

func TestNewFileValidation(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		tag      string
		problems []string
	}{
		{name: "missing both", problems: []string{"Service name is required", "Tag is required"}},
		{name: "blank service", service: "   ", tag: "1.0.0", problems: []string{"Service name is required"}},
		{name: "bad service", service: "svc_1", tag: "1.0.0", problems: []string{"Service name can only contain letters, numbers, and hyphens"}},
		{name: "bad tag", service: "svc", tag: "v1.0", problems: []string{"Tag must be in format X.X.X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFile(tt.service, tt.tag)
			require.ErrorIs(t, err, ErrInvalidInput)

			var ierr *InputError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, tt.problems, ierr.Problems)
		})
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "recent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Add(ctx, RecentFile{ID: "1", Name: "a.txt", Path: "/d/a.txt", Source: SourceDirectory, CreatedAt: base}))
	require.NoError(t, store.Add(ctx, RecentFile{ID: "2", Name: "b.txt", Path: "Downloads folder", Source: SourceDownload, CreatedAt: base.Add(time.Hour)}))

	files, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b.txt", files[0].Name, "newest first")
	assert.Equal(t, SourceDownload, files[0].Source)
	assert.True(t, base.Equal(files[1].CreatedAt))

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	found, err := store.Find(ctx, "A.TXT")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "1", found.ID)

	missing, err := store.Find(ctx, "c.txt")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = store.Add(ctx, RecentFile{ID: "3", Name: "A.txt", Path: "x", Source: SourceDownload, CreatedAt: base})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, store.Delete(ctx, "a.txt"))
	assert.ErrorIs(t, store.Delete(ctx, "a.txt"), ErrNotFound)
}

func TestManagerSaveToDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "releases")
	m := NewManager(newTestStore(t), dir)

	f, rf, err := m.Generate(ctx, "orders api", "2.0.1")
	require.NoError(t, err)

	assert.Equal(t, SourceDirectory, rf.Source)
	assert.Equal(t, filepath.Join(dir, f.Name), rf.Path)
	data, err := os.ReadFile(rf.Path)
	require.NoError(t, err)
	assert.Equal(t, "orders-api:2.0.1", string(data))

	_, _, err = m.Generate(ctx, "Orders API", "2.0.1")
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, m.Delete(ctx, f.Name))
	_, err = os.Stat(rf.Path)
	assert.True(t, os.IsNotExist(err))

	recent, err := m.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestManagerRecordDownload(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newTestStore(t), "")

	f, rf, err := m.Generate(ctx, "billing", "0.1.0")
	require.NoError(t, err)
	assert.Equal(t, SourceDownload, rf.Source)
	assert.Equal(t, "billing:0.1.0", f.Content)
	assert.NotEmpty(t, rf.ID)

	_, err = m.SaveToDirectory(ctx, f)
	assert.Error(t, err)

	require.NoError(t, m.Delete(ctx, f.Name))
	assert.ErrorIs(t, m.Delete(ctx, f.Name), ErrNotFound)
}

func TestManagerScan(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "[RELEASE] old-1.0.0.txt"), []byte("old:1.0.0"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	m := NewManager(newTestStore(t), dir)

	added, err := m.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = m.Scan(ctx)
	require.NoError(t, err)
	assert.Zero(t, added, "already recorded files are skipped")

	recent, err := m.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "[RELEASE] old-1.0.0.txt", recent[0].Name)
}
