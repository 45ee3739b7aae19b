package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
)

const maxErrorBody = 64 << 10

// problem covers the error bodies the API produces: ASP.NET problem
// details ({title, errors: {field: [msg]}}) and the ad hoc {message} form.
type problem struct {
	Message string          `json:"message"`
	Title   string          `json:"title"`
	Detail  string          `json:"detail"`
	Errors  json.RawMessage `json:"errors"`
}

func mapStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch code := resp.StatusCode; {
	case code == http.StatusUnauthorized:
		return ErrAuthorityLost
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusLocked:
		return ErrAccountLocked
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return &ValidationError{Messages: problemMessages(body)}
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrTimeout, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	default:
		return &StatusError{Code: code, Message: strings.Join(problemMessages(body), "; ")}
	}
}

func problemMessages(body []byte) []string {
	var p problem
	if err := json.Unmarshal(body, &p); err != nil {
		if s := strings.TrimSpace(string(body)); s != "" {
			return []string{s}
		}
		return nil
	}

	if msgs := errorsField(p.Errors); len(msgs) > 0 {
		return msgs
	}
	for _, s := range []string{p.Message, p.Detail, p.Title} {
		if s != "" {
			return []string{s}
		}
	}
	return nil
}

func errorsField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err != nil {
		return nil
	}

	fields := make([]string, 0, len(byField))
	for f := range byField {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		var many []string
		if err := json.Unmarshal(byField[f], &many); err == nil {
			msgs = append(msgs, many...)
			continue
		}
		var one string
		if err := json.Unmarshal(byField[f], &one); err == nil {
			msgs = append(msgs, one)
		}
	}
	return msgs
}

var (
	itemsAliases = []string{"items", "itens", "data", "results", "registros"}
	totalAliases = []string{"total", "totalCount", "totalItems", "totalRegistros", "count"}
)

// decodePage reads a listing response. The configured field names are
// tried first, then the aliases seen across the API, case-insensitively.
// A bare array is accepted as an unpaginated listing.
func decodePage(raw json.RawMessage, shape models.ListShape) (*models.RawPage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return &models.RawPage{Items: items, Total: len(items)}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	page := &models.RawPage{Items: []json.RawMessage{}}

	if v, ok := lookup(obj, shape.ItemsField, itemsAliases); ok {
		if err := json.Unmarshal(v, &page.Items); err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		if page.Items == nil {
			page.Items = []json.RawMessage{}
		}
	}

	if v, ok := lookup(obj, shape.TotalField, totalAliases); ok {
		if err := json.Unmarshal(v, &page.Total); err != nil {
			return nil, fmt.Errorf("total: %w", err)
		}
	} else {
		page.Total = len(page.Items)
	}

	return page, nil
}

func lookup(obj map[string]json.RawMessage, preferred string, aliases []string) (json.RawMessage, bool) {
	names := aliases
	if preferred != "" {
		names = append([]string{preferred}, aliases...)
	}
	for _, n := range names {
		for k, v := range obj {
			if strings.EqualFold(k, n) {
				return v, true
			}
		}
	}
	return nil, false
}
