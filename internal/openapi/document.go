// Package openapi loads Swagger/OpenAPI documents as generic JSON trees and
// reduces them to an allow-listed set of paths plus the definitions those
// paths reach through $ref pointers.
//
// Documents are kept as map[string]any rather than a typed model so that
// vendor extensions and unknown fields survive the round trip untouched.
package openapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	// KeyPaths is the top-level section mapping path templates to path items.
	KeyPaths = "paths"

	// KeyDefinitions is the top-level section mapping schema names to schemas.
	KeyDefinitions = "definitions"

	// KeyTags is the optional top-level tag list.
	KeyTags = "tags"
)

// Format identifies the encoding of a document on disk.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrMalformed is returned when a document cannot be parsed or lacks a
// required section.
var ErrMalformed = errors.New("malformed document")

// Document is a decoded OpenAPI document.
type Document struct {
	root map[string]any
}

// NewDocument wraps an already decoded tree. The map is used as is.
func NewDocument(root map[string]any) (*Document, error) {
	doc := &Document{root: root}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// FormatFromPath guesses the document format from a file extension.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes data in the given format and checks that the paths and
// definitions sections are present.
func Parse(data []byte, format Format) (*Document, error) {
	var root map[string]any

	switch format {
	case FormatYAML:
		var node any
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		root = yamlToStringMap(node)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		var extra any
		if err := dec.Decode(&extra); err != io.EOF {
			return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrMalformed)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}
	return NewDocument(root)
}

func (d *Document) validate() error {
	if _, ok := d.root[KeyPaths].(map[string]any); !ok {
		return fmt.Errorf("%w: missing or invalid %q section", ErrMalformed, KeyPaths)
	}
	if _, ok := d.root[KeyDefinitions].(map[string]any); !ok {
		return fmt.Errorf("%w: missing or invalid %q section", ErrMalformed, KeyDefinitions)
	}
	return nil
}

// Root returns the underlying tree.
func (d *Document) Root() map[string]any {
	return d.root
}

// Paths returns the paths section.
func (d *Document) Paths() map[string]any {
	m, _ := d.root[KeyPaths].(map[string]any)
	return m
}

// SetPaths replaces the paths section.
func (d *Document) SetPaths(paths map[string]any) {
	d.root[KeyPaths] = paths
}

// Definitions returns the definitions section.
func (d *Document) Definitions() map[string]any {
	m, _ := d.root[KeyDefinitions].(map[string]any)
	return m
}

// SetDefinitions replaces the definitions section.
func (d *Document) SetDefinitions(defs map[string]any) {
	d.root[KeyDefinitions] = defs
}

// Encode writes the document as tab-indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d.root); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// Bytes returns the encoded form produced by Encode.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the document and atomically replaces the file at path.
// Nothing is written if encoding fails.
func (d *Document) Write(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// yamlToStringMap converts a decoded YAML node into the map[string]any shape
// produced by the JSON decoder. Non-string keys such as unquoted response
// codes are stringified.
func yamlToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalize(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalize(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalize(t[i])
		}
		return arr
	default:
		return v
	}
}
