// Package config decodes and validates the import rewrite configuration table.
//
// The table maps an import source (e.g. "antd") to the policy used to rewrite
// imports of that source:
//
//	{
//	  "antd": {
//	    "transform": "antd/es/${member}",
//	    "style": "antd/es/${member}/style",
//	    "memberTransformers": ["dashed_case"]
//	  }
//	}
//
// The same structure is accepted as YAML.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/transform-imports/pkg/casing"
)

// MemberPlaceholder is the token replaced by the transformed member name in
// Transform and Style templates.
const MemberPlaceholder = "${member}"

// ModuleConfig is the rewrite policy for one import source.
type ModuleConfig struct {
	// Transform is the path template for member imports.
	Transform string `json:"transform" yaml:"transform"`

	// SkipDefaultConversion keeps `{ X }` as a named import instead of
	// turning it into `import X from ...`. Only the source path changes.
	SkipDefaultConversion bool `json:"skipDefaultConversion" yaml:"skipDefaultConversion"`

	// PreventFullImport makes default and namespace imports of the source
	// a fatal error.
	PreventFullImport bool `json:"preventFullImport" yaml:"preventFullImport"`

	// Style is the optional path template for a companion side-effect
	// import emitted after every member import. Nil when absent.
	Style *string `json:"style,omitempty" yaml:"style,omitempty"`

	// MemberTransformers is the case pipeline applied to member names.
	MemberTransformers []casing.Case `json:"memberTransformers,omitempty" yaml:"memberTransformers,omitempty"`
}

// New returns a ModuleConfig with the documented defaults for everything but
// the transform template.
func New(transform string) *ModuleConfig {
	return &ModuleConfig{
		Transform:         transform,
		PreventFullImport: true,
	}
}

// HasStyle reports whether a companion style import is configured.
func (c *ModuleConfig) HasStyle() bool {
	return c.Style != nil
}

// Validate implements validation.Validatable.
func (c ModuleConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MemberTransformers, validation.Each(validation.By(knownCase))),
	)
}

func knownCase(value interface{}) error {
	c, ok := value.(casing.Case)
	if !ok {
		return fmt.Errorf("must be a case style")
	}
	_, err := casing.Parse(string(c))
	return err
}

// Table maps import sources to their rewrite policy. A nil or empty Table
// disables rewriting.
type Table map[string]*ModuleConfig

// Lookup returns the policy for source, if any.
func (t Table) Lookup(source string) (*ModuleConfig, bool) {
	c, ok := t[source]
	return c, ok && c != nil
}

// Sources returns the configured import sources, sorted.
func (t Table) Sources() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every entry and reports the first invalid source.
func (t Table) Validate() error {
	for _, source := range t.Sources() {
		c := t[source]
		if c == nil {
			return &Error{Source: source, Err: fmt.Errorf("entry is null")}
		}
		if err := c.Validate(); err != nil {
			return &Error{Source: source, Err: err}
		}
	}
	return nil
}

// rawModuleConfig mirrors ModuleConfig with pointer fields so that missing
// keys can be told apart from zero values.
type rawModuleConfig struct {
	Transform             *string       `json:"transform" yaml:"transform"`
	SkipDefaultConversion *bool         `json:"skipDefaultConversion" yaml:"skipDefaultConversion"`
	PreventFullImport     *bool         `json:"preventFullImport" yaml:"preventFullImport"`
	Style                 *string       `json:"style" yaml:"style"`
	MemberTransformers    []casing.Case `json:"memberTransformers" yaml:"memberTransformers"`
}

func (r rawModuleConfig) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Transform, validation.NotNil),
	)
}

func (r rawModuleConfig) toModuleConfig() *ModuleConfig {
	c := New(*r.Transform)
	if r.SkipDefaultConversion != nil {
		c.SkipDefaultConversion = *r.SkipDefaultConversion
	}
	if r.PreventFullImport != nil {
		c.PreventFullImport = *r.PreventFullImport
	}
	c.Style = r.Style
	c.MemberTransformers = r.MemberTransformers
	return c
}

func fromRaw(raw map[string]rawModuleConfig) (Table, error) {
	table := make(Table, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, source := range keys {
		r := raw[source]
		if err := r.validate(); err != nil {
			return nil, &Error{Source: source, Err: err}
		}
		table[source] = r.toModuleConfig()
	}
	return table, nil
}

// UnmarshalJSON implements json.Unmarshaler, applying defaults and
// validation per entry.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw map[string]rawModuleConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	table, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*t = table
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Table) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]rawModuleConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}
	table, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*t = table
	return nil
}

// Parse decodes a JSON configuration string. Empty input means "no
// configuration" and yields an empty table.
func Parse(data []byte) (Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, nil
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, wrap(err)
	}
	if table == nil {
		// literal `null`
		return Table{}, nil
	}
	return table, nil
}

// ParseString is Parse for a string.
func ParseString(s string) (Table, error) {
	return Parse([]byte(s))
}

// ParseYAML decodes a YAML configuration document.
func ParseYAML(data []byte) (Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, nil
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, wrap(err)
	}
	if table == nil {
		return Table{}, nil
	}
	return table, nil
}

// Load reads a configuration file, choosing the decoder by extension
// (.yaml/.yml for YAML, anything else for JSON).
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

func wrap(err error) error {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return err
	}
	return &Error{Err: err}
}
