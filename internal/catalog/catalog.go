// Package catalog persists inspection summaries for datasets a user has
// looked at, so they can be listed and compared later without reloading.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabscan-cli/internal/analysis"
	"github.com/KaramelBytes/tabscan-cli/internal/utils"
)

// FileName is the catalog file inside a catalog directory.
const FileName = "catalog.json"

// ErrEntryNotFound is returned when no entry has the requested id.
var ErrEntryNotFound = errors.New("catalog entry not found")

// Entry is one catalogued dataset.
type Entry struct {
	ID          string                        `json:"id"`
	Path        string                        `json:"path"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Rows        int                           `json:"rows"`
	Columns     []string                      `json:"columns"`
	InvalidRows []int                         `json:"invalid_rows"`
	Scope       analysis.Scope                `json:"scope"`
	Types       map[string]analysis.TagCounts `json:"types"`
	Uniques     map[string]analysis.TagCounts `json:"uniques"`
	Duplicates  map[string]analysis.TagCounts `json:"duplicates"`
	AddedAt     time.Time                     `json:"added_at"`
	InspectedAt time.Time                     `json:"inspected_at"`
}

// Catalog is the on-disk collection of entries.
type Catalog struct {
	Entries   map[string]*Entry `json:"entries"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Not serialized: directory holding catalog.json
	dir string `json:"-"`
}

// Open loads the catalog in dir. A missing catalog file yields an empty
// catalog; call Save to create it.
func Open(dir string) (*Catalog, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			now := time.Now()
			return &Catalog{Entries: map[string]*Entry{}, CreatedAt: now, UpdatedAt: now, dir: dir}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Entries == nil {
		c.Entries = map[string]*Entry{}
	}
	c.dir = dir
	return &c, nil
}

// Dir returns the on-disk catalog directory.
func (c *Catalog) Dir() string { return c.dir }

// Save writes catalog.json using atomic write.
func (c *Catalog) Save() error {
	if c.dir == "" {
		return errors.New("catalog directory not set")
	}
	c.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return utils.WriteFileAtomic(filepath.Join(c.dir, FileName), data, 0o644)
}

// Add records the inspection of the file at path. Re-adding a path already in
// the catalog refreshes that entry and keeps its id.
func (c *Catalog) Add(path, description string, in *analysis.Inspection) (*Entry, error) {
	if in == nil {
		return nil, errors.New("inspection is nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	now := time.Now()
	e := c.byPath(abs)
	if e == nil {
		e = &Entry{ID: uuid.NewString(), AddedAt: now}
		c.Entries[e.ID] = e
	}
	e.Path = abs
	e.Name = filepath.Base(abs)
	if description != "" {
		e.Description = description
	}
	e.Rows = in.Rows
	e.Columns = append([]string(nil), in.Header...)
	e.InvalidRows = append([]int(nil), in.InvalidRows...)
	e.Scope = in.Scope
	e.Types = in.Types
	e.Uniques = in.Uniques
	e.Duplicates = in.Duplicates
	e.InspectedAt = now
	c.UpdatedAt = now
	return e, nil
}

func (c *Catalog) byPath(abs string) *Entry {
	for _, e := range c.Entries {
		if e.Path == abs {
			return e
		}
	}
	return nil
}

// Get returns the entry with id. A unique id prefix of at least four
// characters is accepted.
func (c *Catalog) Get(id string) (*Entry, error) {
	if e, ok := c.Entries[id]; ok {
		return e, nil
	}
	var match *Entry
	if len(id) >= 4 {
		for k, e := range c.Entries {
			if len(k) >= len(id) && k[:len(id)] == id {
				if match != nil {
					return nil, fmt.Errorf("id prefix %q is ambiguous", id)
				}
				match = e
			}
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrEntryNotFound)
	}
	return match, nil
}

// List returns entries ordered by name, then id.
func (c *Catalog) List() []*Entry {
	out := make([]*Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Remove deletes the entry with id (or unique prefix).
func (c *Catalog) Remove(id string) error {
	e, err := c.Get(id)
	if err != nil {
		return err
	}
	delete(c.Entries, e.ID)
	c.UpdatedAt = time.Now()
	return nil
}
