package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yemekhane/menucal/internal/config"
	"github.com/yemekhane/menucal/internal/meal"
)

const (
	snapshotFile = "menus.json"
	pagesDir     = "pages"
)

// Storage handles persistence of menu snapshots and raw pages
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed.
func New(dataDir string) (*Storage, error) {
	dataDir, err := config.ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the menu snapshot from disk. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*meal.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return meal.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot meal.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Menus == nil {
		snapshot.Menus = make(map[string]*meal.Result)
	}

	return &snapshot, nil
}

// SaveSnapshot writes the snapshot to disk, stamping UpdatedAt.
func (s *Storage) SaveSnapshot(snapshot *meal.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.snapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.snapshotPath()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// SaveMenus merges menus into the stored snapshot and returns the meals that are
// new or changed compared to what was stored before.
func (s *Storage) SaveMenus(menus map[string]*meal.Result) ([]*meal.Change, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}

	changes := meal.Diff(snapshot, menus)
	snapshot.Merge(menus, "")

	if err := s.SaveSnapshot(snapshot); err != nil {
		return nil, err
	}
	return changes, nil
}

// GetMenu returns the stored menu for date.
func (s *Storage) GetMenu(date string) (*meal.Result, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if res, exists := snapshot.Menus[date]; exists && res != nil {
		return res, nil
	}

	return nil, fmt.Errorf("menu not found: %s", date)
}

// SavePage stores a raw page body for date under pages/YYYY-MM-DD.html.
func (s *Storage) SavePage(date string, body []byte) error {
	stem, err := meal.FileStem(date)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.dataDir, pagesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating pages directory: %w", err)
	}

	path := filepath.Join(dir, stem+".html")
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("writing page %s: %w", path, err)
	}
	return nil
}

// PagePath returns where the raw page for date is stored.
func (s *Storage) PagePath(date string) (string, error) {
	stem, err := meal.FileStem(date)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dataDir, pagesDir, stem+".html"), nil
}
