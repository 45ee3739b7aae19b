// Package credstore keeps the locally persisted display identity of the
// signed-in user under one well-known key.
//
// Writes are guarded by a generation counter. Every session-changing
// operation (login, logout, rehydration) calls Begin first; a Save or Clear
// issued under an older generation is refused with ErrStaleGeneration, so a
// slow logout can never wipe the record of a login that started after it.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/govadmin/internal/common"
	"github.com/fxamacker/cbor/v2"
)

var ErrStaleGeneration = errors.New("credential store write superseded by a newer session operation")

// Generation identifies the session-changing operation a write belongs to.
type Generation uint64

type Store struct {
	repo metadata.Repository

	mu  sync.Mutex
	gen Generation
}

func New(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Begin starts a new session-changing operation and returns its generation.
func (s *Store) Begin() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Current returns the generation of the latest operation.
func (s *Store) Current() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Load returns the persisted record, or nil if there is none.
func (s *Store) Load(ctx context.Context) (*models.Credential, error) {
	raw, err := s.repo.Get(ctx, common.CredentialRecordKey)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var c models.Credential
	if err := cbor.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	return &c, nil
}

// Save persists c if gen is still the current generation.
func (s *Store) Save(ctx context.Context, gen Generation, c models.Credential) error {
	raw, err := cbor.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrStaleGeneration
	}
	if err := s.repo.Set(ctx, common.CredentialRecordKey, raw); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Clear removes the record if gen is still the current generation.
func (s *Store) Clear(ctx context.Context, gen Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrStaleGeneration
	}
	if err := s.repo.Delete(ctx, common.CredentialRecordKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
