package resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	r, ok := c.Lookup(" Noticias ")
	require.True(t, ok)
	require.Equal(t, "/Noticia/listar", r.ListPath())
	require.Equal(t, "/Noticia/excluir/12", r.ActionPath(ActionDelete, "12"))
	require.True(t, r.Supports(ActionDeactivate))

	tags, ok := c.Lookup("tags")
	require.True(t, ok)
	require.False(t, tags.Supports(ActionActivate))

	_, ok = c.Lookup("nope")
	require.False(t, ok)

	all := c.All()
	require.Len(t, all, 8)
	require.Equal(t, "categorias", all[0].Name)
}

func TestActionMethod(t *testing.T) {
	require.Equal(t, http.MethodDelete, ActionDelete.Method())
	require.Equal(t, http.MethodPut, ActionActivate.Method())
	require.Equal(t, http.MethodPut, ActionDeactivate.Method())
}

func TestActionPath_EscapesID(t *testing.T) {
	r := Resource{Base: "/Tag"}
	require.Equal(t, "/Tag/ativar/a%2Fb", r.ActionPath(ActionActivate, "a/b"))
}

type fakeLister struct {
	endpoint string
	shape    models.ListShape
	page     *models.RawPage
	err      error
}

func (f *fakeLister) List(_ context.Context, endpoint string, shape models.ListShape, _ models.Query) (*models.RawPage, error) {
	f.endpoint = endpoint
	f.shape = shape
	return f.page, f.err
}

func TestNewFetcher_DecodesRecords(t *testing.T) {
	l := &fakeLister{page: &models.RawPage{
		Items: []json.RawMessage{json.RawMessage(`{"id":3,"titulo":"Obra","ativo":true}`)},
		Total: 11,
	}}
	r, _ := Default().Lookup("transparencia")

	page, err := NewFetcher[models.Record](l, r)(context.Background(), models.Query{Page: 1})
	require.NoError(t, err)
	require.Equal(t, "/Transparencia/listar", l.endpoint)
	require.Equal(t, "itens", l.shape.ItemsField)
	require.Equal(t, 11, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "3", page.Items[0].ID())
	require.Equal(t, "sim", page.Items[0].Field("ativo"))
}

func TestNewFetcher_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewFetcher[models.Record](&fakeLister{err: boom}, Resource{Name: "x"})(context.Background(), models.Query{})
	require.ErrorIs(t, err, boom)

	bad := &fakeLister{page: &models.RawPage{Items: []json.RawMessage{json.RawMessage(`[1]`)}}}
	_, err = NewFetcher[models.Record](bad, Resource{Name: "x"})(context.Background(), models.Query{})
	require.Error(t, err)
}
