package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/schema"
	pkgerrors "ixp-backend/pkg/errors"
)

func newTestComponent(name string, origins ...string) *entities.ComponentDefinition {
	if len(origins) == 0 {
		origins = []string{"https://app.example.com"}
	}
	return &entities.ComponentDefinition{
		Name:           name,
		Framework:      "react",
		RemoteURL:      "https://cdn.example.com/" + name + ".js",
		ExportName:     "default",
		Version:        "1.0.0",
		AllowedOrigins: origins,
		PropsSchema: schema.Object(map[string]*schema.Schema{
			"title": schema.String(),
		}),
	}
}

func TestComponentRegistry_Add_AndGet(t *testing.T) {
	reg := NewComponentRegistry()
	def := newTestComponent("ProductCard")

	require.NoError(t, reg.Add(def))

	got, ok := reg.Get("ProductCard")
	require.True(t, ok)
	assert.Equal(t, def, got)
	assert.Equal(t, 1, reg.Len())
}

func TestComponentRegistry_Add_DuplicateName(t *testing.T) {
	reg := NewComponentRegistry()
	require.NoError(t, reg.Add(newTestComponent("ProductCard")))

	err := reg.Add(newTestComponent("ProductCard"))

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDuplicateName))
}

func TestComponentRegistry_Add_RequiresOrigins(t *testing.T) {
	reg := NewComponentRegistry()
	def := newTestComponent("ProductCard")
	def.AllowedOrigins = nil

	err := reg.Add(def)

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidDefinition))
}

func TestComponentRegistry_Add_RejectsMalformedURL(t *testing.T) {
	reg := NewComponentRegistry()
	def := newTestComponent("ProductCard")
	def.RemoteURL = "not a url"

	err := reg.Add(def)

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidDefinition))
}

func TestComponentRegistry_GetAll_InsertionOrder(t *testing.T) {
	reg := NewComponentRegistry()
	require.NoError(t, reg.Add(newTestComponent("Zeta")))
	require.NoError(t, reg.Add(newTestComponent("Alpha")))

	all := reg.GetAll()

	require.Len(t, all, 2)
	assert.Equal(t, "Zeta", all[0].Name)
	assert.Equal(t, "Alpha", all[1].Name)
}

func TestComponentRegistry_Remove(t *testing.T) {
	reg := NewComponentRegistry()
	require.NoError(t, reg.Add(newTestComponent("ProductCard")))

	assert.True(t, reg.Remove("ProductCard"))
	assert.False(t, reg.Remove("ProductCard"))
}

func TestComponentRegistry_IsOriginAllowed_Exact(t *testing.T) {
	reg := NewComponentRegistry()
	require.NoError(t, reg.Add(newTestComponent("ProductCard", "https://app.example.com")))

	assert.True(t, reg.IsOriginAllowed("ProductCard", "https://app.example.com"))
	assert.False(t, reg.IsOriginAllowed("ProductCard", "https://evil.example.com"))
}

func TestComponentRegistry_IsOriginAllowed_Wildcard(t *testing.T) {
	reg := NewComponentRegistry()
	require.NoError(t, reg.Add(newTestComponent("PublicWidget", "*")))

	assert.True(t, reg.IsOriginAllowed("PublicWidget", "https://anywhere.example.com"))
	assert.True(t, reg.IsOriginAllowed("PublicWidget", "http://localhost:3000"))
}

func TestComponentRegistry_IsOriginAllowed_UnknownComponent(t *testing.T) {
	reg := NewComponentRegistry()

	assert.False(t, reg.IsOriginAllowed("Ghost", "https://app.example.com"))
}
