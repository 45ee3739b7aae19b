package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/govadmin/internal/client/resources"
	"github.com/dmitrijs2005/govadmin/internal/client/services"
)

var (
	errUsage         = errors.New("invalid arguments")
	errNoResource    = errors.New("no resource selected; run 'use <resource>' first")
	errUnknownFilter = errors.New("unknown filter")
	errLastPage      = errors.New("already on the last page")
	errFirstPage     = errors.New("already on the first page")
)

// Resources prints the catalog of listable resources. It needs no session.
func (a *App) Resources(ctx context.Context) error {
	printlnFn(renderCatalog(a.resources.Resources()))
	return nil
}

// Use selects a resource and shows its current page.
func (a *App) Use(ctx context.Context, name string) error {
	r, _, err := a.resources.Open(name)
	if err != nil {
		renderError(err)
		return err
	}
	a.current = r.Name
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		if e.Snapshot().TotalKnown {
			return nil
		}
		return e.Refresh(ctx)
	})
}

// List shows the current page of the selected resource, fetching it on
// first use.
func (a *App) List(ctx context.Context) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		if e.Snapshot().TotalKnown {
			return nil
		}
		return e.Refresh(ctx)
	})
}

// Filter applies name=value pairs. An empty value removes the filter.
func (a *App) Filter(ctx context.Context, args []string) error {
	pairs, err := parseAssignments(args)
	if err != nil {
		renderError(err)
		return err
	}
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		r, _, _ := a.resources.Open(a.current)
		for _, p := range pairs {
			if !slices.Contains(r.Filters, p[0]) {
				return fmt.Errorf("%w %q; available: %s", errUnknownFilter, p[0], strings.Join(r.Filters, ", "))
			}
		}
		for _, p := range pairs {
			if err := e.SetFilter(ctx, p[0], p[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *App) ClearFilters(ctx context.Context) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		return e.ClearFilters(ctx)
	})
}

// Sort sets the sort expression, e.g. "titulo" or "-dataPublicacao".
func (a *App) Sort(ctx context.Context, spec string) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		return e.SetSort(ctx, spec)
	})
}

func (a *App) PageSize(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		err = fmt.Errorf("%w: page size %q is not a number", errUsage, arg)
		renderError(err)
		return err
	}
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		return e.SetPageSize(ctx, n)
	})
}

func (a *App) Page(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		err = fmt.Errorf("%w: page %q is not a number", errUsage, arg)
		renderError(err)
		return err
	}
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		return e.SetPage(ctx, n)
	})
}

func (a *App) Next(ctx context.Context) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		s := e.Snapshot()
		if s.TotalKnown && s.Page >= max(s.TotalPages(), 1) {
			return errLastPage
		}
		return e.SetPage(ctx, s.Page+1)
	})
}

func (a *App) Prev(ctx context.Context) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		s := e.Snapshot()
		if s.Page <= 1 {
			return errFirstPage
		}
		return e.SetPage(ctx, s.Page-1)
	})
}

func (a *App) Refresh(ctx context.Context) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		return e.Refresh(ctx)
	})
}

// Act runs a record action on the selected resource and refreshes the page.
func (a *App) Act(ctx context.Context, action resources.Action, id string) error {
	return a.view(ctx, func(ctx context.Context, e *services.RecordEngine) error {
		return a.resources.Apply(ctx, a.current, action, id)
	})
}

// view runs fn against the engine of the selected resource behind the
// route guard, then prints the resulting page.
func (a *App) view(ctx context.Context, fn func(ctx context.Context, e *services.RecordEngine) error) error {
	if a.current == "" {
		renderError(errNoResource)
		return errNoResource
	}
	return a.protected(ctx, func(ctx context.Context) error {
		r, e, err := a.resources.Open(a.current)
		if err != nil {
			return err
		}
		if err := fn(ctx, e); err != nil {
			return err
		}
		printlnFn(renderPage(r, e.Snapshot()))
		return nil
	})
}

// parseAssignments splits name=value arguments. The value may be empty
// and may itself contain '='.
func parseAssignments(args []string) ([][2]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: expected name=value", errUsage)
	}
	out := make([][2]string, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q is not name=value", errUsage, arg)
		}
		out = append(out, [2]string{name, value})
	}
	return out, nil
}
