package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ixp-backend/domain/schema"
)

const yamlDefinitions = `
intents:
  - name: greet
    component: Greeter
    version: 1.0.0
    crawlable: true
    category: demo
    parameterSchema:
      type: object
      required: [name]
      properties:
        name:
          type: string

components:
  - name: Greeter
    framework: react
    remoteUrl: https://cdn.example.com/greeter.js
    exportName: Greeter
    version: 1.0.0
    allowedOrigins: ["*"]
    propsSchema:
      type: object
      properties:
        greeting:
          type: string
          default: hello

staticSources:
  - name: articles
    version: 1.0.0
    description: curated articles
    recordSchema:
      type: object
      required: [title]
      properties:
        title:
          type: string
    records:
      - title: First article
      - title: Second article
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefinitions_YAML(t *testing.T) {
	path := writeTempFile(t, "definitions.yaml", yamlDefinitions)

	defs, err := LoadDefinitions(path)

	require.NoError(t, err)
	require.Len(t, defs.Intents, 1)
	require.Len(t, defs.Components, 1)
	require.Len(t, defs.StaticSources, 1)

	intent := defs.Intents[0]
	assert.Equal(t, "greet", intent.Name)
	assert.Equal(t, "Greeter", intent.Component)
	assert.True(t, intent.Crawlable)
	require.NotNil(t, intent.ParameterSchema)
	assert.Equal(t, schema.TypeObject, intent.ParameterSchema.Type)
	assert.Equal(t, []string{"name"}, intent.ParameterSchema.Required)

	component := defs.Components[0]
	assert.Equal(t, []string{"*"}, component.AllowedOrigins)
	assert.Equal(t, "hello", component.PropsSchema.Properties["greeting"].Default)

	source := defs.StaticSources[0]
	assert.True(t, source.IsEnabled())
	assert.Len(t, source.Records, 2)
}

func TestLoadDefinitions_JSON(t *testing.T) {
	path := writeTempFile(t, "definitions.json", `{
		"intents": [{"name": "greet", "component": "Greeter", "version": "1.0.0"}],
		"components": [],
		"staticSources": []
	}`)

	defs, err := LoadDefinitions(path)

	require.NoError(t, err)
	require.Len(t, defs.Intents, 1)
	assert.Equal(t, "greet", defs.Intents[0].Name)
}

func TestLoadDefinitions_MissingFile(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoadDefinitions_MalformedYAML(t *testing.T) {
	path := writeTempFile(t, "broken.yaml", "intents: [unclosed")

	_, err := LoadDefinitions(path)

	assert.Error(t, err)
}

func TestStaticSourceDefinition_IsEnabled(t *testing.T) {
	var def StaticSourceDefinition
	assert.True(t, def.IsEnabled())

	off := false
	def.Enabled = &off
	assert.False(t, def.IsEnabled())
}
