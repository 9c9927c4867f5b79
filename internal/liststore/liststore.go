// Package liststore owns the shopping list: validation on add, delete by
// id, stable sort by category, and persistence of the whole list to a
// durable slot after every change.
//
// A Store is not safe for concurrent use. It is built once at startup and
// handed to whatever presents the list.
package liststore

import (
	"bytes"
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store"
)

// DefaultKey is the slot key the list is stored under.
const DefaultKey = "list"

// corruptSuffix names the key a corrupt payload is copied to before the
// list is reset. Later, different payloads go to <key>.corrupt.1, .2, ...
const corruptSuffix = ".corrupt"

// maxBackups bounds the search for a free backup key.
const maxBackups = 100

type Store struct {
	slot    store.Slot
	catalog *model.Catalog
	key     string
	newID   func() string
	log     *zap.Logger

	items []model.ListItem
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDFunc replaces the UUID generator. Tests use it for stable ids.
func WithIDFunc(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New returns an empty store. Call Load to pick up persisted state.
func New(slot store.Slot, catalog *model.Catalog, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		catalog: catalog,
		key:     DefaultKey,
		newID:   uuid.NewString,
		log:     zap.NewNop(),
		items:   []model.ListItem{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Catalog() *model.Catalog { return s.catalog }

// Load replaces the in-memory list with the one in the slot. A missing key
// yields an empty list. When the stored bytes are not a valid list, the
// raw payload is copied aside, the list is reset to empty and a
// *CorruptStateError is returned.
func (s *Store) Load() error {
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		return err
	}
	if !ok {
		s.items = []model.ListItem{}
		s.log.Debug("no stored list", zap.String("key", s.key))
		return nil
	}
	items, err := decode(s.key, raw)
	if err != nil {
		s.items = []model.ListItem{}
		backup, berr := s.backupCorrupt(raw)
		if berr != nil {
			s.log.Error("could not back up corrupt list", zap.String("key", backup), zap.Error(berr))
		}
		s.log.Warn("stored list is corrupt, starting empty",
			zap.String("key", s.key),
			zap.String("backup", backup),
			zap.Error(err))
		return err
	}
	s.items = items
	s.log.Debug("list loaded", zap.String("key", s.key), zap.Int("items", len(items)))
	return nil
}

// backupCorrupt copies raw aside without clobbering an earlier, different
// backup. A payload already backed up is not written again.
func (s *Store) backupCorrupt(raw []byte) (string, error) {
	for n := 0; n < maxBackups; n++ {
		key := s.key + corruptSuffix
		if n > 0 {
			key = fmt.Sprintf("%s.%d", key, n)
		}
		prev, ok, err := s.slot.Get(key)
		if err != nil {
			return key, err
		}
		if ok && bytes.Equal(prev, raw) {
			return key, nil
		}
		if !ok {
			return key, s.slot.Put(key, raw)
		}
	}
	return s.key + corruptSuffix, fmt.Errorf("more than %d backups of %q", maxBackups, s.key)
}

// AddItem validates and appends a new item, then persists the list.
// Checks run in order and the first failure wins: empty name, unknown
// category, duplicate name. The name is stored exactly as given.
func (s *Store) AddItem(name string, categoryID int) (model.ListItem, error) {
	if name == "" {
		return model.ListItem{}, &ValidationError{Name: name, CategoryID: categoryID, Err: ErrEmptyName}
	}
	if categoryID == model.NoCategory || !s.catalog.Valid(categoryID) {
		return model.ListItem{}, &ValidationError{Name: name, CategoryID: categoryID, Err: ErrInvalidCategory}
	}
	if _, ok := s.FindByName(name); ok {
		return model.ListItem{}, &ValidationError{Name: name, CategoryID: categoryID, Err: ErrDuplicateName}
	}

	it := model.ListItem{ID: s.newID(), ItemName: name, CategoryID: categoryID}
	prev := s.items
	next := make([]model.ListItem, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, it)
	if err := s.commit("add", prev, next); err != nil {
		return model.ListItem{}, err
	}
	s.log.Debug("item added",
		zap.String("id", it.ID),
		zap.String("name", it.ItemName),
		zap.Int("category", it.CategoryID))
	return it, nil
}

// DeleteItem removes the item with id and persists the list. An unknown
// id returns ErrNotFound and writes nothing.
func (s *Store) DeleteItem(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.items
	next := slices.Delete(slices.Clone(prev), i, i+1)
	if err := s.commit("delete", prev, next); err != nil {
		return err
	}
	s.log.Debug("item deleted", zap.String("id", id))
	return nil
}

// SortByCategory reorders the list by ascending category id, keeping the
// relative order of items that share a category, and persists it.
func (s *Store) SortByCategory() error {
	prev := s.items
	next := slices.Clone(prev)
	slices.SortStableFunc(next, func(a, b model.ListItem) int {
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	if err := s.commit("sort", prev, next); err != nil {
		return err
	}
	s.log.Debug("list sorted by category", zap.Int("items", len(next)))
	return nil
}

// Items returns a snapshot of the list in display order.
func (s *Store) Items() []model.ListItem {
	return slices.Clone(s.items)
}

// All iterates a snapshot taken when All is called. The sequence can be
// ranged over any number of times.
func (s *Store) All() iter.Seq2[int, model.ListItem] {
	snap := s.Items()
	return func(yield func(int, model.ListItem) bool) {
		for i, it := range snap {
			if !yield(i, it) {
				return
			}
		}
	}
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Find(id string) (model.ListItem, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return model.ListItem{}, false
}

// FindByName matches names exactly, case included.
func (s *Store) FindByName(name string) (model.ListItem, bool) {
	for _, it := range s.items {
		if it.ItemName == name {
			return it, true
		}
	}
	return model.ListItem{}, false
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it model.ListItem) bool { return it.ID == id })
}

// commit swaps in next and writes it. On a failed write the previous
// list is restored so memory and slot never disagree.
func (s *Store) commit(op string, prev, next []model.ListItem) error {
	b, err := encode(next)
	if err != nil {
		return &PersistError{Op: op, Err: err}
	}
	s.items = next
	if err := s.slot.Put(s.key, b); err != nil {
		s.items = prev
		s.log.Error("persist failed, change rolled back", zap.String("op", op), zap.Error(err))
		return &PersistError{Op: op, Err: err}
	}
	return nil
}
