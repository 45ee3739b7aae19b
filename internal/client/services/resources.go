package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/govadmin/internal/client/listing"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/client/resources"
	"github.com/dmitrijs2005/govadmin/internal/logging"
)

var (
	ErrUnknownResource   = errors.New("unknown resource")
	ErrUnsupportedAction = errors.New("action not supported by resource")
	ErrMissingRecordID   = errors.New("record id is required")
)

// ResourceAPI is the part of the API client the resource service uses.
type ResourceAPI interface {
	resources.Lister
	Do(ctx context.Context, method, path string, body, out any) error
}

// RecordEngine is the list query engine of one resource screen.
type RecordEngine = listing.Engine[models.Record]

// ResourceService hands out one list engine per resource and runs the
// resource actions through it, so every mutation is followed by a refetch
// of the current page.
type ResourceService interface {
	Resources() []resources.Resource
	Open(name string) (resources.Resource, *RecordEngine, error)
	Apply(ctx context.Context, name string, action resources.Action, id string) error
	// Reset discards every engine; used when the session ends.
	Reset()
}

type resourceService struct {
	catalog  *resources.Catalog
	api      ResourceAPI
	pageSize int
	log      logging.Logger

	mu      sync.Mutex
	engines map[string]*RecordEngine
}

func NewResourceService(catalog *resources.Catalog, api ResourceAPI, pageSize int, log logging.Logger) ResourceService {
	if log == nil {
		log = logging.Nop()
	}
	return &resourceService{
		catalog:  catalog,
		api:      api,
		pageSize: pageSize,
		log:      log,
		engines:  map[string]*RecordEngine{},
	}
}

func (s *resourceService) Resources() []resources.Resource {
	return s.catalog.All()
}

// Open returns the engine of the named resource, creating it on first use.
// The engine keeps its filters and page until Reset.
func (s *resourceService) Open(name string) (resources.Resource, *RecordEngine, error) {
	r, ok := s.catalog.Lookup(name)
	if !ok {
		return resources.Resource{}, nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.engines[r.Name]
	if !ok {
		e = listing.New(resources.NewFetcher[models.Record](s.api, r), listing.Options{
			PageSize: s.pageSize,
			Sort:     r.DefaultSort,
			Logger:   s.log.With("resource", r.Name),
		})
		s.engines[r.Name] = e
	}
	return r, e, nil
}

func (s *resourceService) Apply(ctx context.Context, name string, action resources.Action, id string) error {
	r, e, err := s.Open(name)
	if err != nil {
		return err
	}
	if !r.Supports(action) {
		return fmt.Errorf("%w: %s %s", ErrUnsupportedAction, action, r.Name)
	}
	if id == "" {
		return ErrMissingRecordID
	}

	return e.Mutate(ctx, func(ctx context.Context) error {
		if err := s.api.Do(ctx, action.Method(), r.ActionPath(action, id), nil, nil); err != nil {
			return fmt.Errorf("%s %s/%s: %w", action, r.Name, id, err)
		}
		s.log.Info(ctx, "record updated", "resource", r.Name, "action", string(action), "id", id)
		return nil
	})
}

func (s *resourceService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engines = map[string]*RecordEngine{}
}
