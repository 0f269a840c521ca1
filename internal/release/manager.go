package release

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager saves release files and maintains the recent-files list.
type Manager struct {
	store *Store
	// Dir is where files are written. Empty means files are only recorded
	// as downloads and the caller delivers the content.
	Dir string
	now func() time.Time
}

// NewManager returns a Manager backed by store.
func NewManager(store *Store, dir string) *Manager {
	return &Manager{store: store, Dir: dir, now: time.Now}
}

// Generate validates the inputs and saves the file, either to Dir or as a
// download record.
func (m *Manager) Generate(ctx context.Context, serviceName, tag string) (File, RecentFile, error) {
	f, err := NewFile(serviceName, tag)
	if err != nil {
		return File{}, RecentFile{}, err
	}
	var rf RecentFile
	if m.Dir != "" {
		rf, err = m.SaveToDirectory(ctx, f)
	} else {
		rf, err = m.RecordDownload(ctx, f)
	}
	return f, rf, err
}

// SaveToDirectory writes f into Dir and records it.
func (m *Manager) SaveToDirectory(ctx context.Context, f File) (RecentFile, error) {
	if m.Dir == "" {
		return RecentFile{}, errors.New("release: directory not selected")
	}
	if err := m.checkDuplicate(ctx, f.Name); err != nil {
		return RecentFile{}, err
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return RecentFile{}, fmt.Errorf("failed to create release directory: %w", err)
	}

	path := filepath.Join(m.Dir, f.Name)
	if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
		return RecentFile{}, fmt.Errorf("failed to write %s: %w", f.Name, err)
	}

	rf := m.newRecord(f.Name, path, SourceDirectory)
	if err := m.store.Add(ctx, rf); err != nil {
		return RecentFile{}, err
	}
	slog.Info("Release file saved", "name", f.Name, "dir", m.Dir)
	return rf, nil
}

// RecordDownload records f as handed to the caller without touching disk.
func (m *Manager) RecordDownload(ctx context.Context, f File) (RecentFile, error) {
	if err := m.checkDuplicate(ctx, f.Name); err != nil {
		return RecentFile{}, err
	}
	rf := m.newRecord(f.Name, "Downloads folder", SourceDownload)
	if err := m.store.Add(ctx, rf); err != nil {
		return RecentFile{}, err
	}
	slog.Info("Release file recorded as download", "name", f.Name)
	return rf, nil
}

// Recent lists recorded files, newest first.
func (m *Manager) Recent(ctx context.Context, limit int) ([]RecentFile, error) {
	return m.store.List(ctx, limit)
}

// Delete drops a file from the recent list. Directory files are removed
// from disk as well.
func (m *Manager) Delete(ctx context.Context, name string) error {
	rf, err := m.store.Find(ctx, name)
	if err != nil {
		return err
	}
	if rf == nil {
		return ErrNotFound
	}
	if rf.Source == SourceDirectory {
		if err := os.Remove(rf.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete %s: %w", rf.Name, err)
		}
	}
	return m.store.Delete(ctx, rf.Name)
}

// Scan records the .txt files already present in Dir that are not in the
// list yet, using their modification time as creation time.
func (m *Manager) Scan(ctx context.Context) (int, error) {
	if m.Dir == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		return 0, fmt.Errorf("error: '%s' is not a valid directory: %w", m.Dir, err)
	}

	var added int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		existing, err := m.store.Find(ctx, entry.Name())
		if err != nil {
			return added, err
		}
		if existing != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			slog.Warn("Failed to get metadata", "name", entry.Name(), "error", err)
			continue
		}
		rf := m.newRecord(entry.Name(), filepath.Join(m.Dir, entry.Name()), SourceDirectory)
		rf.CreatedAt = info.ModTime()
		if err := m.store.Add(ctx, rf); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (m *Manager) checkDuplicate(ctx context.Context, name string) error {
	existing, err := m.store.Find(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}
	return nil
}

func (m *Manager) newRecord(name, path string, source Source) RecentFile {
	return RecentFile{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		CreatedAt: m.now(),
		Source:    source,
	}
}
