package apitest

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
)

const defaultPageSize = 10

var reservedParams = map[string]bool{"page": true, "pageSize": true, "sort": true}

func (s *Server) collection(r *http.Request) (*collection, bool) {
	c, ok := s.data["/"+r.PathValue("resource")]
	return c, ok
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	size := atoiDefault(q.Get("pageSize"), defaultPageSize)
	if page < 1 || size < 1 {
		writeMessage(w, http.StatusBadRequest, "paginação inválida")
		return
	}

	s.mu.Lock()
	c, ok := s.collection(r)
	if !ok {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "recurso desconhecido")
		return
	}
	shape := c.shape
	matched := make([]models.Record, 0, len(c.records))
	for _, rec := range c.records {
		if matches(rec, q) {
			matched = append(matched, rec)
		}
	}
	s.mu.Unlock()

	sortRecords(matched, q.Get("sort"))

	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))

	items := shape.ItemsField
	if items == "" {
		items = "items"
	}
	total := shape.TotalField
	if total == "" {
		total = "total"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		items: matched[start:end],
		total: len(matched),
	})
}

// matches applies the query filters: "busca" searches every text field,
// "status" is ativo/inativo, any other name must equal the field value.
func matches(rec models.Record, q map[string][]string) bool {
	for name, values := range q {
		if reservedParams[name] || len(values) == 0 || values[0] == "" {
			continue
		}
		want := strings.ToLower(values[0])

		switch name {
		case "busca":
			found := false
			for field := range rec {
				if strings.Contains(strings.ToLower(rec.Field(field)), want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "status":
			active, _ := rec["ativo"].(bool)
			if (want == "ativo") != active {
				return false
			}
		default:
			if strings.ToLower(rec.Field(name)) != want {
				return false
			}
		}
	}
	return true
}

func sortRecords(recs []models.Record, spec string) {
	if spec == "" {
		return
	}
	desc := strings.HasPrefix(spec, "-")
	field := strings.TrimPrefix(spec, "-")

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].Field(field), recs[j].Field(field)
		if desc {
			return a > b
		}
		return a < b
	})
}

func (s *Server) findLocked(r *http.Request) (*collection, int, bool) {
	c, ok := s.collection(r)
	if !ok {
		return nil, 0, false
	}
	id := r.PathValue("id")
	for i, rec := range c.records {
		if rec.ID() == id {
			return c, i, true
		}
	}
	return nil, 0, false
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	c, i, ok := s.findLocked(r)
	if ok {
		c.records = append(c.records[:i:i], c.records[i+1:]...)
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("registro %s não encontrado", r.PathValue("id")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var active bool
	switch r.PathValue("action") {
	case "ativar":
		active = true
	case "desativar":
	default:
		writeMessage(w, http.StatusNotFound, "ação desconhecida")
		return
	}

	s.mu.Lock()
	c, i, ok := s.findLocked(r)
	if ok {
		rec := make(models.Record, len(c.records[i]))
		for k, v := range c.records[i] {
			rec[k] = v
		}
		rec["ativo"] = active
		c.records[i] = rec
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("registro %s não encontrado", r.PathValue("id")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
