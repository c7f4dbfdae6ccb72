package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/transform-imports/pkg/casing"
)

const antdJSON = `
{
    "antd": {
      "transform": "antd/es/${member}",
      "skipDefaultConversion": false,
      "preventFullImport": true,
      "style": "antd/es/${member}/style",
      "memberTransformers": ["dashed_case"]
    }
}
`

func TestParse_FullEntry(t *testing.T) {
	table, err := ParseString(antdJSON)
	require.NoError(t, err)
	require.Len(t, table, 1)

	c, ok := table.Lookup("antd")
	require.True(t, ok)
	assert.Equal(t, "antd/es/${member}", c.Transform)
	assert.False(t, c.SkipDefaultConversion)
	assert.True(t, c.PreventFullImport)
	require.True(t, c.HasStyle())
	assert.Equal(t, "antd/es/${member}/style", *c.Style)
	assert.Equal(t, []casing.Case{casing.DashedCase}, c.MemberTransformers)
}

func TestParse_Defaults(t *testing.T) {
	table, err := ParseString(`{"lodash": {"transform": "lodash/${member}"}}`)
	require.NoError(t, err)

	c, ok := table.Lookup("lodash")
	require.True(t, ok)
	assert.False(t, c.SkipDefaultConversion)
	assert.True(t, c.PreventFullImport, "preventFullImport defaults to true")
	assert.False(t, c.HasStyle())
	assert.Empty(t, c.MemberTransformers)
	assert.Equal(t, New("lodash/${member}"), c)
}

func TestParse_ExplicitFalsePreventFullImport(t *testing.T) {
	table, err := ParseString(`{"lodash": {"transform": "lodash/${member}", "preventFullImport": false}}`)
	require.NoError(t, err)
	assert.False(t, table["lodash"].PreventFullImport)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n", "null", "{}"} {
		table, err := ParseString(in)
		require.NoError(t, err, in)
		assert.NotNil(t, table, in)
		assert.Empty(t, table, in)
	}
}

func TestParse_UnknownFieldsIgnored(t *testing.T) {
	table, err := ParseString(`{"antd": {"transform": "antd/es/${member}", "camel2DashComponentName": true}}`)
	require.NoError(t, err)
	assert.Contains(t, table, "antd")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSource string
		wantText   string
	}{
		{
			name:     "malformed json",
			input:    `{"antd": {`,
			wantText: "invalid import config",
		},
		{
			name:       "missing transform",
			input:      `{"antd": {"style": "antd/es/${member}/style"}}`,
			wantSource: "antd",
			wantText:   "transform",
		},
		{
			name:     "unknown member transformer",
			input:    `{"antd": {"transform": "x", "memberTransformers": ["title_case"]}}`,
			wantText: "title_case",
		},
		{
			name:     "wrong type",
			input:    `{"antd": {"transform": 42}}`,
			wantText: "invalid import config",
		},
		{
			name:     "not an object",
			input:    `["antd"]`,
			wantText: "invalid import config",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := ParseString(tc.input)
			require.Error(t, err)
			assert.Nil(t, table)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "expected *config.Error, got %T", err)
			assert.Equal(t, tc.wantSource, cfgErr.Source)
			assert.Contains(t, err.Error(), tc.wantText)
		})
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
antd:
  transform: antd/es/${member}
  style: antd/es/${member}/style
  memberTransformers: [kebab_case]
lodash:
  transform: lodash/${member}
  preventFullImport: false
`
	table, err := ParseYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"antd", "lodash"}, table.Sources())

	assert.Equal(t, []casing.Case{casing.KebabCase}, table["antd"].MemberTransformers)
	assert.True(t, table["antd"].PreventFullImport)
	assert.False(t, table["lodash"].PreventFullImport)

	_, err = ParseYAML([]byte("antd:\n  style: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"antd"`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "imports.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(antdJSON), 0o644))
	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)

	yamlPath := filepath.Join(dir, "imports.yml")
	yamlDoc := "antd:\n  transform: antd/es/${member}\n  style: antd/es/${member}/style\n  memberTransformers: [dashed_case]\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDoc), 0o644))
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTable_Validate(t *testing.T) {
	valid := Table{"antd": New("antd/es/${member}")}
	assert.NoError(t, valid.Validate())

	bad := Table{"antd": &ModuleConfig{
		Transform:          "antd/es/${member}",
		MemberTransformers: []casing.Case{"nope"},
	}}
	err := bad.Validate()
	require.Error(t, err)
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "antd", cfgErr.Source)

	assert.Error(t, Table{"antd": nil}.Validate())
}
