// Package store persists captured templates. Templates are opaque keyed
// blobs: a store never looks inside the node list it is given.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	overlay "github.com/canderson402/layout-builder-sub001"
)

var (
	// ErrNotFound is returned when deleting a template that does not exist.
	ErrNotFound = errors.New("store: template not found")
	// ErrInvalidID is returned for empty IDs or IDs containing path elements.
	ErrInvalidID = errors.New("store: invalid template id")
)

// Store is the template persistence boundary. Template satisfies
// overlay.TemplateSource so a store can feed slot-list expansion directly.
type Store interface {
	Template(id string) (overlay.Template, bool)
	Save(tm overlay.Template) error
	Delete(id string) error
	List() ([]overlay.Template, error)
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// sortTemplates orders by creation time, then name.
func sortTemplates(list []overlay.Template) {
	slices.SortStableFunc(list, func(a, b overlay.Template) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// --- In-memory ---

// MemStore keeps templates in memory. It is safe for concurrent use.
type MemStore struct {
	mu        sync.RWMutex
	templates map[string]overlay.Template
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{templates: make(map[string]overlay.Template)}
}

// Template implements Store.
func (s *MemStore) Template(id string) (overlay.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tm, ok := s.templates[id]
	return tm, ok
}

// Save implements Store. An existing template with the same ID is replaced.
func (s *MemStore) Save(tm overlay.Template) error {
	if !validID(tm.ID) {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tm.ID] = tm
	return nil
}

// Delete implements Store.
func (s *MemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return ErrNotFound
	}
	delete(s.templates, id)
	return nil
}

// List implements Store.
func (s *MemStore) List() ([]overlay.Template, error) {
	s.mu.RLock()
	list := make([]overlay.Template, 0, len(s.templates))
	for _, tm := range s.templates {
		list = append(list, tm)
	}
	s.mu.RUnlock()
	sortTemplates(list)
	return list, nil
}

// Sync replaces the contents of s with every template listed by from. On
// error s is left unchanged.
func (s *MemStore) Sync(from Store) error {
	list, err := from.List()
	if err != nil {
		return err
	}
	templates := make(map[string]overlay.Template, len(list))
	for _, tm := range list {
		templates[tm.ID] = tm
	}
	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	return nil
}

// --- Directory ---

// DirStore keeps one JSON file per template, named <id>.json, in Dir.
type DirStore struct {
	Dir string
}

// NewDirStore creates the directory if needed and returns a store over it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &DirStore{Dir: dir}, nil
}

func (s *DirStore) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// Template implements Store. Unreadable or malformed files are treated as
// missing.
func (s *DirStore) Template(id string) (overlay.Template, bool) {
	tm, err := s.Load(id)
	return tm, err == nil
}

// Load reads one template, reporting why it could not be read.
func (s *DirStore) Load(id string) (overlay.Template, error) {
	if !validID(id) {
		return overlay.Template{}, ErrInvalidID
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return overlay.Template{}, ErrNotFound
	}
	if err != nil {
		return overlay.Template{}, fmt.Errorf("store: %w", err)
	}
	var tm overlay.Template
	if err := json.Unmarshal(data, &tm); err != nil {
		return overlay.Template{}, fmt.Errorf("store: parse template %s: %w", id, err)
	}
	return tm, nil
}

// Save implements Store. The file is written to a temporary name and renamed
// so readers never see a partial template.
func (s *DirStore) Save(tm overlay.Template) error {
	if !validID(tm.ID) {
		return ErrInvalidID
	}
	data, err := json.MarshalIndent(tm, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode template %s: %w", tm.ID, err)
	}
	tmp, err := os.CreateTemp(s.Dir, "."+tm.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(tm.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *DirStore) Delete(id string) error {
	if !validID(id) {
		return ErrInvalidID
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// List implements Store. Files that fail to parse are skipped.
func (s *DirStore) List() ([]overlay.Template, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	var list []overlay.Template
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		if tm, err := s.Load(strings.TrimSuffix(name, ".json")); err == nil {
			list = append(list, tm)
		}
	}
	sortTemplates(list)
	return list, nil
}
