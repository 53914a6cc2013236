package store

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/question"
)

// Observer receives each published version of the definition list. The slice
// is a private copy owned by the observer.
type Observer = func([]question.Definition)

// IDGenerator assigns identities to definitions appended without one.
type IDGenerator func() string

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides the UUID based identity generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store holds the ordered, append-only list of question definitions and
// broadcasts every version to its observers. Newly attached observers receive
// the current list immediately. Delivery is synchronous and ordered: an
// Append returns only after every observer has seen the new version.
//
// Observers run while the publish lock is held and must not call Append or
// Subscribe on the same store.
type Store struct {
	mu        sync.RWMutex
	publishMu sync.Mutex

	list      []question.Definition
	observers map[uint64]Observer
	order     []uint64
	nextID    uint64

	newID  IDGenerator
	logger *slog.Logger
}

// New constructs an empty store.
func New(options ...Option) *Store {
	s := &Store{
		observers: make(map[uint64]Observer),
		newID:     uuid.NewString,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Append validates the configuration, assigns an identity, and publishes the
// extended list to every observer.
func (s *Store) Append(t question.Type, cfg question.Config) (question.Definition, error) {
	return s.AppendDefinition(question.Definition{Type: t, Config: cfg})
}

// AppendDefinition appends a complete definition, keeping its ID when set.
func (s *Store) AppendDefinition(def question.Definition) (question.Definition, error) {
	if err := def.Validate(); err != nil {
		return question.Definition{}, fmt.Errorf("store: append: %w", err)
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	def = def.Clone()
	if strings.TrimSpace(def.ID) == "" {
		def.ID = s.newID()
	}

	s.mu.Lock()
	next := make([]question.Definition, len(s.list), len(s.list)+1)
	copy(next, s.list)
	next = append(next, def)
	s.list = next
	observers := s.snapshotObservers()
	s.mu.Unlock()

	s.logger.Debug("question appended",
		"id", def.ID,
		"type", string(def.Type),
		"count", len(next),
	)

	s.deliver(observers, next)

	return def.Clone(), nil
}

// Subscribe registers fn and immediately delivers the current list to it. The
// returned function detaches the observer; calling it more than once is safe.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.order = append(s.order, id)
	current := s.list
	s.mu.Unlock()

	fn(question.CloneList(current))

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
			for i, existing := range s.order {
				if existing == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Snapshot returns a deep copy of the current list.
func (s *Store) Snapshot() []question.Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return question.CloneList(s.list)
}

// Len reports the number of stored definitions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

func (s *Store) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(s.order))
	for _, id := range s.order {
		if fn, ok := s.observers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (s *Store) deliver(observers []Observer, list []question.Definition) {
	for _, fn := range observers {
		fn(question.CloneList(list))
	}
}
