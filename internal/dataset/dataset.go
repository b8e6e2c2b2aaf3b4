// Package dataset owns the canonical reference dataset: the CSV snapshot of
// known clubs and countries that fuzzy resolution runs against.
package dataset

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Entity is one canonical row: a club or country with display attributes.
// Name is the unique key within a snapshot.
type Entity struct {
	Name     string `csv:"club_name" json:"name"`
	Logo     string `csv:"club_logo" json:"logo,omitempty"`
	Link     string `csv:"club_link" json:"link"`
	Category string `csv:"league" json:"category"`
}

// Snapshot is an immutable, de-duplicated view of the dataset for the
// duration of one operation.
type Snapshot struct {
	entities []Entity
	byName   map[string]int
}

// Load reads the CSV at path into a fresh Snapshot.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var rows []Entity
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return FromEntities(rows), nil
}

// FromEntities builds a Snapshot, de-duplicating by name. The first
// occurrence of a name wins.
func FromEntities(rows []Entity) *Snapshot {
	s := &Snapshot{byName: make(map[string]int, len(rows))}
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		if _, seen := s.byName[row.Name]; seen {
			continue
		}
		s.byName[row.Name] = len(s.entities)
		s.entities = append(s.entities, row)
	}
	return s
}

// Names returns entity names in snapshot order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.entities))
	for i, e := range s.entities {
		names[i] = e.Name
	}
	return names
}

// Get returns the entity for an exact name.
func (s *Snapshot) Get(name string) (Entity, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Entity{}, false
	}
	return s.entities[i], true
}

// Len reports the number of distinct entities.
func (s *Snapshot) Len() int {
	return len(s.entities)
}

// Entities returns a copy of the rows in snapshot order.
func (s *Snapshot) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Write persists entities to the CSV at path, replacing its contents.
func Write(path string, entities []Entity) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&entities, f); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}
