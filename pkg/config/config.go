// Package config holds the generation configuration consumed by refiners,
// writers and the generator.
package config

import (
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"

	"github.com/cmmoran/clientgen/pkg/errors"
)

const (
	DefaultSerializer   = "Microsoft.Kiota.Serialization.Json.JsonSerializationWriterFactory"
	DefaultDeserializer = "Microsoft.Kiota.Serialization.Json.JsonParseNodeFactory"
	DefaultClientClass  = "ApiClient"
	DefaultNamespace    = "ApiSdk"
	DefaultOutputPath   = "out"
)

// GenerationConfiguration selects and parameterises one generation run.
//
// Language            – target language name ("python", "ruby", "go").
// ClientClassName     – name of the root request builder class.
// ClientNamespaceName – namespace every generated element lives under.
// ImportPath          – Go module path the client namespace maps to (Go target only).
// UsesBackingStore    – route model property access through a backing store.
// Serializers         – serialization writer factories the client registers.
// Deserializers       – parse node factories the client registers.
// DescriptionPath     – API description document to load.
// OutputPath          – directory artifacts are written to.
// Bundle              – write a single txtar bundle instead of one file per artifact.
type GenerationConfiguration struct {
	Language            string   `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty" mapstructure:"language,omitempty"`
	ClientClassName     string   `json:"client_class_name,omitempty" yaml:"client_class_name,omitempty" toml:"client_class_name,omitempty" mapstructure:"client_class_name,omitempty"`
	ClientNamespaceName string   `json:"client_namespace_name,omitempty" yaml:"client_namespace_name,omitempty" toml:"client_namespace_name,omitempty" mapstructure:"client_namespace_name,omitempty"`
	ImportPath          string   `json:"import_path,omitempty" yaml:"import_path,omitempty" toml:"import_path,omitempty" mapstructure:"import_path,omitempty"`
	UsesBackingStore    bool     `json:"uses_backing_store,omitempty" yaml:"uses_backing_store,omitempty" toml:"uses_backing_store,omitempty" mapstructure:"uses_backing_store,omitempty"`
	Serializers         []string `json:"serializers,omitempty" yaml:"serializers,omitempty" toml:"serializers,omitempty" mapstructure:"serializers,omitempty"`
	Deserializers       []string `json:"deserializers,omitempty" yaml:"deserializers,omitempty" toml:"deserializers,omitempty" mapstructure:"deserializers,omitempty"`
	DescriptionPath     string   `json:"description_path,omitempty" yaml:"description_path,omitempty" toml:"description_path,omitempty" mapstructure:"description_path,omitempty"`
	OutputPath          string   `json:"output_path,omitempty" yaml:"output_path,omitempty" toml:"output_path,omitempty" mapstructure:"output_path,omitempty"`
	Bundle              bool     `json:"bundle,omitempty" yaml:"bundle,omitempty" toml:"bundle,omitempty" mapstructure:"bundle,omitempty"`
}

// New returns a configuration with defaults applied, then opts.
func New(opts ...Option) *GenerationConfiguration {
	c := &GenerationConfiguration{
		ClientClassName:     DefaultClientClass,
		ClientNamespaceName: DefaultNamespace,
		Serializers:         []string{DefaultSerializer},
		Deserializers:       []string{DefaultDeserializer},
		OutputPath:          DefaultOutputPath,
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

// Normalize fills in missing values and validates the result.
func (c *GenerationConfiguration) Normalize() error {
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.Language == "" {
		return errors.InvalidInputf("a target language is required")
	}
	if c.ClientClassName == "" {
		c.ClientClassName = DefaultClientClass
	}
	if c.ClientNamespaceName == "" {
		c.ClientNamespaceName = DefaultNamespace
	}
	if len(c.Serializers) == 0 {
		c.Serializers = []string{DefaultSerializer}
	}
	if len(c.Deserializers) == 0 {
		c.Deserializers = []string{DefaultDeserializer}
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if strings.Contains(c.OutputPath, ".") {
		c.OutputPath, _ = filepath.Abs(c.OutputPath)
	}
	if c.Language == "golang" {
		c.Language = "go"
	}
	if c.Language == "go" {
		if c.ImportPath == "" {
			c.ImportPath = "example.com/" + strings.ToLower(c.ClientNamespaceName)
		}
		if err := module.CheckImportPath(c.ImportPath); err != nil {
			return errors.Mark(errors.Wrapf(err, "%q is not a valid go import path", c.ImportPath), errors.ErrInvalidInput)
		}
	}
	return nil
}

// Clone returns a copy that shares nothing mutable with c.
func (c *GenerationConfiguration) Clone() *GenerationConfiguration {
	out := *c
	out.Serializers = append([]string(nil), c.Serializers...)
	out.Deserializers = append([]string(nil), c.Deserializers...)
	return &out
}

// functional option pattern ---------------------------------------------------

type Option func(*GenerationConfiguration)

func WithLanguage(l string) Option         { return func(c *GenerationConfiguration) { c.Language = l } }
func WithClientClassName(n string) Option  { return func(c *GenerationConfiguration) { c.ClientClassName = n } }
func WithClientNamespace(n string) Option  { return func(c *GenerationConfiguration) { c.ClientNamespaceName = n } }
func WithImportPath(p string) Option       { return func(c *GenerationConfiguration) { c.ImportPath = p } }
func WithBackingStore() Option             { return func(c *GenerationConfiguration) { c.UsesBackingStore = true } }
func WithDescriptionPath(p string) Option  { return func(c *GenerationConfiguration) { c.DescriptionPath = p } }
func WithOutputPath(p string) Option       { return func(c *GenerationConfiguration) { c.OutputPath = p } }
func WithBundle() Option                   { return func(c *GenerationConfiguration) { c.Bundle = true } }
func WithSerializers(s ...string) Option   { return func(c *GenerationConfiguration) { c.Serializers = s } }
func WithDeserializers(d ...string) Option { return func(c *GenerationConfiguration) { c.Deserializers = d } }
