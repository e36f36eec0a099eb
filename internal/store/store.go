// Package store provides the process-wide in-memory record store.
// All users and items live here for the lifetime of the process;
// nothing is persisted.
package store

import (
	"fmt"
	"sync"

	"github.com/stash/stash/internal/model"
)

// Policy controls what a create does when the ID is already taken.
type Policy string

const (
	// PolicyOverwrite replaces the existing record (last writer wins).
	PolicyOverwrite Policy = "overwrite"
	// PolicyReject refuses the create and keeps the existing record.
	PolicyReject Policy = "reject"
)

// ParsePolicy converts a configuration string to a Policy.
// An empty string selects PolicyOverwrite.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyReject:
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// Options configures a Store.
type Options struct {
	Policy Policy
}

// State is a point-in-time copy of every record in the store.
type State struct {
	Users map[uint8]model.User `json:"users"`
	Items map[uint8]model.Item `json:"items"`
}

// Store holds users and items behind a single mutex.
// Reads and writes alike take the lock; every method is one critical section.
type Store struct {
	mu     sync.Mutex
	users  map[uint8]model.User
	items  map[uint8]model.Item
	policy Policy
}

// New creates an empty Store.
func New(opts Options) *Store {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyOverwrite
	}
	return &Store{
		users:  make(map[uint8]model.User),
		items:  make(map[uint8]model.Item),
		policy: policy,
	}
}

// Policy returns the duplicate-ID policy in effect.
func (s *Store) Policy() Policy {
	return s.policy
}

// GetUser returns the user with the given ID.
// Returns ErrUserNotFound if absent.
func (s *Store) GetUser(id uint8) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns a copy of all users keyed by ID.
func (s *Store) ListUsers() map[uint8]model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyUsers(s.users)
}

// CreateUser stores user under its ID and returns the stored value.
// Under PolicyReject an existing ID yields ErrUserExists.
func (s *Store) CreateUser(user model.User) (model.User, error) {
	stored := model.NewUser(user.ID, user.Username, user.Age)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[stored.ID]; exists && s.policy == PolicyReject {
		return model.User{}, ErrUserExists
	}
	s.users[stored.ID] = stored
	return stored, nil
}

// GetItem returns the item with the given ID.
// Returns ErrItemNotFound if absent.
func (s *Store) GetItem(id uint8) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrItemNotFound
	}
	return item, nil
}

// ListItems returns a copy of all items keyed by ID.
func (s *Store) ListItems() map[uint8]model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyItems(s.items)
}

// CreateItem stores item under its ID and returns the stored value.
// The owner is copied into a fresh User; it is not linked to the users collection.
// Under PolicyReject an existing ID yields ErrItemExists.
func (s *Store) CreateItem(item model.Item) (model.Item, error) {
	stored := model.NewItem(item.ID, item.Name, item.Owner)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[stored.ID]; exists && s.policy == PolicyReject {
		return model.Item{}, ErrItemExists
	}
	s.items[stored.ID] = stored
	return stored, nil
}

// Snapshot copies both collections under one lock acquisition.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Users: copyUsers(s.users),
		Items: copyItems(s.items),
	}
}

func copyUsers(src map[uint8]model.User) map[uint8]model.User {
	dst := make(map[uint8]model.User, len(src))
	for id, u := range src {
		dst[id] = u
	}
	return dst
}

func copyItems(src map[uint8]model.Item) map[uint8]model.Item {
	dst := make(map[uint8]model.Item, len(src))
	for id, it := range src {
		dst[id] = it
	}
	return dst
}
