package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginResponse_DropsTokenAndMapsCredential(t *testing.T) {
	body := `{"token":"secret-jwt","expiresAt":"2026-10-19T12:00:00Z",
		"user":{"id":1,"name":"A","email":"a@b.com"},
		"permissions":["noticia.listar"],"profiles":["admin"],
		"menus":[{"name":"Notícias","path":"/noticias"}]}`

	var resp LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Empty(t, resp.Token)
	assert.Equal(t, Credential{ID: "1", DisplayName: "A", Email: "a@b.com"}, resp.Credential())
	assert.JSONEq(t, `["admin"]`, string(resp.Profiles))
	assert.JSONEq(t, `[{"name":"Notícias","path":"/noticias"}]`, string(resp.Menus))
}

func TestLoginResponse_ToleratesProfileObjects(t *testing.T) {
	body := `{"user":{"id":"u-7","name":"B","email":"b@b.com"},
		"permissions":{"noticia":["listar","excluir"]},
		"profiles":[{"id":2,"nome":"Editor"}],
		"menus":null}`

	var resp LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, Credential{ID: "u-7", DisplayName: "B", Email: "b@b.com"}, resp.Credential())
	assert.JSONEq(t, `[{"id":2,"nome":"Editor"}]`, string(resp.Profiles))
}

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		in   string
		want FlexibleID
	}{
		{`42`, "42"},
		{`"6f1c"`, "6f1c"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id FlexibleID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
		assert.Equal(t, tt.want, id)
	}
}

func TestRecord_Field(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"titulo":"Edital","ativo":true,"nota":2.5,"autor":null}`), &r))

	assert.Equal(t, "7", r.ID())
	assert.Equal(t, "Edital", r.Field("titulo"))
	assert.Equal(t, "sim", r.Field("ativo"))
	assert.Equal(t, "2.5", r.Field("nota"))
	assert.Equal(t, "", r.Field("autor"))
	assert.Equal(t, "", r.Field("missing"))
}
