package models

import (
	"encoding/json"
	"fmt"
)

// Query is one page request of a listing endpoint.
type Query struct {
	Filters  map[string]string
	Page     int
	PageSize int
	Sort     string
}

// ListShape names the fields of a listing response; they differ between
// resources of the admin API.
type ListShape struct {
	ItemsField string
	TotalField string
}

// DefaultListShape is the {items, total} envelope most endpoints use.
var DefaultListShape = ListShape{ItemsField: "items", TotalField: "total"}

// RawPage is a listing response with undecoded items.
type RawPage struct {
	Items []json.RawMessage
	Total int
}

// Page is a decoded page of resources.
type Page[T any] struct {
	Items []T
	Total int
}

// Record is a schemaless resource row as returned by a listing endpoint.
type Record map[string]any

// ID returns the record identifier rendered as text, or "" if absent.
func (r Record) ID() string {
	return r.Field("id")
}

// Field renders a field for display.
func (r Record) Field(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "sim"
		}
		return "não"
	default:
		return fmt.Sprint(t)
	}
}
