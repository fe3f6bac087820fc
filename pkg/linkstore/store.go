package linkstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/hashnav/internal/config"
	hnerrors "github.com/vango-dev/hashnav/internal/errors"
	"github.com/vango-dev/hashnav/pkg/hashroute"
)

// Link store errors.
var (
	ErrNotFound  = errors.New("link not found")
	ErrInvalidID = errors.New("invalid link id")
)

// Store persists fragments under generated IDs.
type Store interface {
	// Save normalizes fragment, stores it, and returns its new ID.
	Save(ctx context.Context, fragment string) (string, error)

	// Load returns the stored fragment or ErrNotFound.
	Load(ctx context.Context, id string) (string, error)

	// Delete removes a link. Deleting a missing link is not an error.
	Delete(ctx context.Context, id string) error
}

// Normalize returns the canonical spelling of fragment.
func Normalize(fragment string) string {
	return hashroute.Format(hashroute.Parse(fragment))
}

// NewID returns a fresh link ID.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects IDs that NewID could not have produced.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// MemoryStore keeps links in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]string)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, fragment string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := NewID()
	s.mu.Lock()
	s.links[id] = Normalize(fragment)
	s.mu.Unlock()
	return id, nil
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fragment, ok := s.links[id]
	if !ok {
		return "", ErrNotFound
	}
	return fragment, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.links, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored links.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// Recorder receives the outcome of each store operation.
type Recorder interface {
	LinkOp(op string, err error)
}

type instrumented struct {
	Store
	rec Recorder
}

// Instrument reports every operation on store to rec. A nil rec returns
// store unchanged.
func Instrument(store Store, rec Recorder) Store {
	if rec == nil {
		return store
	}
	return &instrumented{Store: store, rec: rec}
}

func (s *instrumented) Save(ctx context.Context, fragment string) (string, error) {
	id, err := s.Store.Save(ctx, fragment)
	s.rec.LinkOp("save", err)
	return id, err
}

func (s *instrumented) Load(ctx context.Context, id string) (string, error) {
	fragment, err := s.Store.Load(ctx, id)
	s.rec.LinkOp("load", err)
	return fragment, err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	s.rec.LinkOp("delete", err)
	return err
}

// Open builds the store selected by cfg.Backend. The returned close function
// releases backend resources and is never nil.
func Open(ctx context.Context, cfg config.LinksConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), noop, nil

	case config.BackendSQLite:
		store, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, noop, hnerrors.New("E400").WithField("links.sqlite.path").Wrap(err)
		}
		return store, store.Close, nil

	case config.BackendS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, noop, hnerrors.New("E400").WithField("links.s3").Wrap(err)
		}
		return NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix), noop, nil

	default:
		return nil, noop, hnerrors.New("E402").WithField("links.backend")
	}
}
