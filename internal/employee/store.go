// Package employee owns the authoritative, ordered employee collection.
//
// The Store is the only writer. Every mutating command follows the same
// three steps under one lock: read the current collection, compute the
// new one, persist the whole document. Readers never see a half-applied
// command.
//
// The store does NOT validate its input. Callers run internal/validation
// first and the store trusts what it is handed.
package employee

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aanand-mishra/employees-api/internal/storage"
	"github.com/aanand-mishra/employees-api/internal/types"
)

// DefaultKey is the slot name the collection is stored under.
const DefaultKey = "employees"

// maxIDAttempts bounds the collision-retry loop in nextID. A v4 UUID
// colliding even once is already astronomically unlikely.
const maxIDAttempts = 16

var (
	// ErrPersist wraps a failed write. The in-memory change has been
	// applied; only durability is in doubt.
	ErrPersist = errors.New("employee: changes may not survive a restart")

	// ErrLoadCorrupted means the stored document could not be decoded
	// and the store started empty.
	ErrLoadCorrupted = errors.New("employee: stored collection is corrupted")

	// ErrLoad means the slot could not be read and the store started empty.
	ErrLoad = errors.New("employee: stored collection could not be read")

	// ErrIDExhausted is returned by Add when the id generator keeps
	// producing ids that are already taken.
	ErrIDExhausted = errors.New("employee: could not generate a unique id")
)

// Store is the record store. Create one with New, call Initialize once,
// then share the pointer with whatever issues commands.
type Store struct {
	mu        sync.RWMutex
	slot      storage.Storage
	key       string
	newID     func() string
	log       *slog.Logger
	employees []types.Employee
	index     map[string]int
}

// Option customises a Store.
type Option func(*Store)

// WithKey overrides the slot name (DefaultKey).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load and persistence warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithIDGenerator replaces the id source. The store still checks every
// generated id against the collection and retries on collision.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New returns an empty store backed by slot.
func New(slot storage.Storage, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		key:   DefaultKey,
		newID: uuid.NewString,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the collection from the slot.
//
// It never leaves the store unusable: a missing slot is a normal empty
// start (nil error), while an unreadable or corrupt document is discarded
// and reported through an error wrapping ErrLoad or ErrLoadCorrupted so
// the caller can warn the user.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset(nil)

	raw, err := s.slot.Read(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("no stored collection, starting empty", slog.String("key", s.key))
		return nil
	}
	if err != nil {
		s.log.Warn("cannot read stored collection, starting empty",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	employees, err := decode(raw)
	if err != nil {
		s.log.Warn("discarding corrupted collection",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrLoadCorrupted, err)
	}

	reassigned, err := s.adopt(employees)
	if err != nil {
		s.reset(nil)
		s.log.Warn("discarding collection with unusable ids",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrLoadCorrupted, err)
	}

	s.log.Info("collection loaded", slog.Int("employees", len(s.employees)))

	// Write the repaired ids back so they stay stable across restarts.
	if reassigned > 0 {
		if err := s.persist(); err != nil {
			s.log.Warn("repaired ids not persisted yet", slog.String("error", err.Error()))
		}
	}
	return nil
}

// adopt installs loaded records in order. Records older builds saved with
// an empty or repeated id (ids were once wall-clock milliseconds) keep
// their data and get a fresh id; the first holder of an id keeps it.
// Caller holds the write lock.
func (s *Store) adopt(employees []types.Employee) (int, error) {
	s.reset(nil)

	reassigned := 0
	for _, e := range employees {
		if _, taken := s.index[e.ID]; e.ID == "" || taken {
			id, err := s.nextID()
			if err != nil {
				return 0, err
			}
			s.log.Warn("reassigning employee id",
				slog.String("old_id", e.ID), slog.String("new_id", id))
			e.ID = id
			reassigned++
		}
		s.index[e.ID] = len(s.employees)
		s.employees = append(s.employees, e)
	}
	return reassigned, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Add appends a new record built from in and returns it with its id.
//
// A non-nil error wrapping ErrPersist still comes with a valid record:
// the employee is in the collection, the write just failed.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Add(in types.EmployeeInput) (types.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.nextID()
	if err != nil {
		return types.Employee{}, err
	}

	e := in.ToEmployee(id)
	s.index[id] = len(s.employees)
	s.employees = append(s.employees, e)

	s.log.Info("employee added", slog.String("id", id))
	return e.Clone(), s.persist()
}

// Update replaces the fields of the record with the given id, keeping
// its id and position. An input with no Active flag keeps the current
// one. It reports false (and writes nothing) on a miss.
func (s *Store) Update(id string, in types.EmployeeInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	e := in.ToEmployee(id)
	if in.Active == nil {
		e.Active = s.employees[i].Active
	}
	s.employees[i] = e

	s.log.Info("employee updated", slog.String("id", id))
	return true, s.persist()
}

// SetImage replaces only the profile image of the record with the given
// id; nil removes it. Every other field is left as it is. False on a miss.
func (s *Store) SetImage(id string, img *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	if img != nil {
		v := *img
		img = &v
	}
	s.employees[i].ProfileImage = img

	s.log.Info("employee image changed",
		slog.String("id", id), slog.Bool("removed", img == nil))
	return true, s.persist()
}

// Delete removes the record with the given id. False on a miss.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	next := make([]types.Employee, 0, len(s.employees)-1)
	next = append(next, s.employees[:i]...)
	next = append(next, s.employees[i+1:]...)
	s.reset(next)

	s.log.Info("employee deleted", slog.String("id", id))
	return true, s.persist()
}

// ToggleActive flips the active flag of the record with the given id.
// False on a miss.
func (s *Store) ToggleActive(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	s.employees[i].Active = !s.employees[i].Active

	s.log.Info("employee status toggled",
		slog.String("id", id), slog.Bool("active", s.employees[i].Active))
	return true, s.persist()
}

// List returns a deep copy of the collection in display order.
// Mutating the result has no effect on the store.
func (s *Store) List() []types.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Employee, len(s.employees))
	for i, e := range s.employees {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (types.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return types.Employee{}, false
	}
	return s.employees[i].Clone(), true
}

// nextID draws ids until one is free. Caller holds the write lock.
func (s *Store) nextID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.index[id]; !taken {
			return id, nil
		}
		s.log.Warn("generated id collides, retrying", slog.String("id", id))
	}
	return "", ErrIDExhausted
}

// persist writes the whole collection. Caller holds the write lock, so
// the next command cannot start before this one is durable (or failed).
func (s *Store) persist() error {
	doc, err := encode(s.employees)
	if err != nil {
		s.log.Error("cannot encode collection", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := s.slot.Write(s.key, doc); err != nil {
		s.log.Warn("cannot persist collection",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}

func (s *Store) reset(employees []types.Employee) {
	if employees == nil {
		employees = []types.Employee{}
	}
	s.employees = employees
	s.index = make(map[string]int, len(employees))
	for i, e := range employees {
		s.index[e.ID] = i
	}
}
