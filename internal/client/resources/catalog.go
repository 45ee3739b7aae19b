// Package resources describes the listing screens of the admin site: the
// endpoint of each resource, the envelope its listing responds with, the
// columns worth showing and the state-changing actions it accepts.
package resources

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
)

// Action is a mutation endpoint shared by the admin resources.
type Action string

const (
	ActionDelete     Action = "excluir"
	ActionActivate   Action = "ativar"
	ActionDeactivate Action = "desativar"
)

// Method is the HTTP method the action is sent with.
func (a Action) Method() string {
	if a == ActionDelete {
		return http.MethodDelete
	}
	return http.MethodPut
}

type Column struct {
	Field  string
	Header string
}

type Resource struct {
	// Name is the short handle used by the terminal front end.
	Name  string
	Title string
	// Base is the API path prefix, e.g. "/Noticia".
	Base        string
	Shape       models.ListShape
	Columns     []Column
	Filters     []string
	DefaultSort string
	Actions     []Action
}

func (r Resource) ListPath() string {
	return r.Base + "/listar"
}

// ActionPath returns the endpoint of action a on record id.
func (r Resource) ActionPath(a Action, id string) string {
	return fmt.Sprintf("%s/%s/%s", r.Base, a, url.PathEscape(id))
}

// Supports reports whether the resource accepts action a.
func (r Resource) Supports(a Action) bool {
	for _, x := range r.Actions {
		if x == a {
			return true
		}
	}
	return false
}

type Catalog struct {
	byName map[string]Resource
}

func NewCatalog(rs ...Resource) *Catalog {
	c := &Catalog{byName: make(map[string]Resource, len(rs))}
	for _, r := range rs {
		c.byName[strings.ToLower(r.Name)] = r
	}
	return c
}

// Lookup finds a resource by name, case-insensitively.
func (c *Catalog) Lookup(name string) (Resource, bool) {
	r, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// All returns the resources ordered by name.
func (c *Catalog) All() []Resource {
	out := make([]Resource, 0, len(c.byName))
	for _, r := range c.byName {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var (
	toggleable = []Action{ActionDelete, ActionActivate, ActionDeactivate}
	deleteOnly = []Action{ActionDelete}
)

// Default returns the catalog of the agency admin API.
func Default() *Catalog {
	return NewCatalog(
		Resource{
			Name: "noticias", Title: "Notícias", Base: "/Noticia",
			Shape: models.DefaultListShape,
			Columns: []Column{
				{"id", "ID"}, {"titulo", "Título"}, {"categoria", "Categoria"},
				{"dataPublicacao", "Publicação"}, {"ativo", "Ativo"},
			},
			Filters:     []string{"busca", "categoriaId", "status", "dataInicio", "dataFim"},
			DefaultSort: "-dataPublicacao",
			Actions:     toggleable,
		},
		Resource{
			Name: "projetos", Title: "Projetos", Base: "/Projeto",
			Shape: models.DefaultListShape,
			Columns: []Column{
				{"id", "ID"}, {"nome", "Nome"}, {"situacao", "Situação"}, {"ativo", "Ativo"},
			},
			Filters:     []string{"busca", "situacao", "status"},
			DefaultSort: "nome",
			Actions:     toggleable,
		},
		Resource{
			Name: "documentos", Title: "Documentos", Base: "/Documento",
			Shape: models.ListShape{ItemsField: "data", TotalField: "totalCount"},
			Columns: []Column{
				{"id", "ID"}, {"titulo", "Título"}, {"tipo", "Tipo"}, {"dataCadastro", "Cadastro"},
			},
			Filters:     []string{"busca", "tipo", "categoriaId"},
			DefaultSort: "-dataCadastro",
			Actions:     toggleable,
		},
		Resource{
			Name: "usuarios", Title: "Usuários", Base: "/Usuario",
			Shape: models.DefaultListShape,
			Columns: []Column{
				{"id", "ID"}, {"nome", "Nome"}, {"email", "E-mail"}, {"perfil", "Perfil"}, {"ativo", "Ativo"},
			},
			Filters:     []string{"busca", "perfilId", "status"},
			DefaultSort: "nome",
			Actions:     toggleable,
		},
		Resource{
			Name: "perfis", Title: "Perfis", Base: "/Perfil",
			Shape:       models.DefaultListShape,
			Columns:     []Column{{"id", "ID"}, {"nome", "Nome"}, {"descricao", "Descrição"}},
			Filters:     []string{"busca"},
			DefaultSort: "nome",
			Actions:     deleteOnly,
		},
		Resource{
			Name: "categorias", Title: "Categorias", Base: "/Categoria",
			Shape:       models.DefaultListShape,
			Columns:     []Column{{"id", "ID"}, {"nome", "Nome"}, {"ativo", "Ativo"}},
			Filters:     []string{"busca", "status"},
			DefaultSort: "nome",
			Actions:     toggleable,
		},
		Resource{
			Name: "tags", Title: "Tags", Base: "/Tag",
			Shape:       models.DefaultListShape,
			Columns:     []Column{{"id", "ID"}, {"nome", "Nome"}},
			Filters:     []string{"busca"},
			DefaultSort: "nome",
			Actions:     deleteOnly,
		},
		Resource{
			Name: "transparencia", Title: "Transparência", Base: "/Transparencia",
			Shape: models.ListShape{ItemsField: "itens", TotalField: "totalRegistros"},
			Columns: []Column{
				{"id", "ID"}, {"titulo", "Título"}, {"exercicio", "Exercício"}, {"ativo", "Ativo"},
			},
			Filters:     []string{"busca", "exercicio", "status"},
			DefaultSort: "-exercicio",
			Actions:     toggleable,
		},
	)
}
