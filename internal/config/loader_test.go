package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	f, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, []string{"./..."}, f.Packages)
	assert.Equal(t, "taskfn-generator/task", f.RuntimeImport)
	assert.Equal(t, "task", f.RuntimePackage)
	assert.Equal(t, "_taskfn.go", f.OutputSuffix)
	assert.Empty(t, f.Traits)
}

func TestParseFull(t *testing.T) {
	src := `
version: "1"
packages:
  - ./examples/...
runtime_import: example.com/engine/task
runtime_package: tt
output_suffix: _gen.go
traits:
  - name: ContentSource
    methods: [Content, Versioned]
    impls: [FileSource]
    defaults: [DefaultContentSource]
`

	f, err := Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"./examples/..."}, f.Packages)
	assert.Equal(t, "example.com/engine/task", f.RuntimeImport)
	assert.Equal(t, "tt", f.RuntimePackage)
	assert.Equal(t, "_gen.go", f.OutputSuffix)

	require.Len(t, f.Traits, 1)
	assert.Equal(t, "ContentSource", f.Traits[0].Name)
	assert.True(t, f.Traits[0].HasMethod("Content"))
	assert.False(t, f.Traits[0].HasMethod("Read"))
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"not yaml",
			"traits: {bad",
			"failed to parse config YAML",
		},
		{
			"empty trait name",
			"traits:\n  - methods: [Read]\n",
			"name must not be empty",
		},
		{
			"duplicate trait",
			"traits:\n  - name: A\n    methods: [Read]\n  - name: A\n    methods: [Write]\n",
			`trait "A" declared twice`,
		},
		{
			"trait without methods",
			"traits:\n  - name: A\n",
			`trait "A" declares no methods`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTraitLookup(t *testing.T) {
	f := &File{Traits: []Trait{
		{
			Name:     "ContentSource",
			Methods:  []string{"Content"},
			Impls:    []string{"FileSource"},
			Defaults: []string{"DefaultContentSource"},
		},
		{
			Name:    "Versioned",
			Methods: []string{"Version"},
			Impls:   []string{"FileSource"},
		},
	}}

	t.Run("impl lookup matches type and method", func(t *testing.T) {
		trait := f.TraitForImpl("FileSource", "Content")
		require.NotNil(t, trait)
		assert.Equal(t, "ContentSource", trait.Name)

		assert.Nil(t, f.TraitForImpl("FileSource", "Missing"))
		assert.Nil(t, f.TraitForImpl("Other", "Content"))
	})

	t.Run("default lookup is separate from impls", func(t *testing.T) {
		trait := f.TraitForDefault("DefaultContentSource", "Content")
		require.NotNil(t, trait)
		assert.Equal(t, "ContentSource", trait.Name)

		assert.Nil(t, f.TraitForDefault("FileSource", "Content"))
	})

	t.Run("second trait can claim the same impl type", func(t *testing.T) {
		trait := f.TraitForImpl("FileSource", "Version")
		require.NotNil(t, trait)
		assert.Equal(t, "Versioned", trait.Name)
	})
}
