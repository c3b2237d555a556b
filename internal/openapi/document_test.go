package openapi

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(`{"paths": {"/a": {}}, "definitions": {"A": {"type": "object"}}}`+"\n\n"), FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, doc.Paths(), "/a")
	assert.Contains(t, doc.Definitions(), "A")
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"paths": `},
		{"trailing garbage", `{"paths": {}, "definitions": {}} garbage`},
		{"second document", `{"paths":{},"definitions":{}}{"x":1}`},
		{"trailing scalar", `{"paths": {}, "definitions": {}} 1`},
		{"array top level", `[1, 2]`},
		{"null top level", `null`},
		{"missing paths", `{"definitions": {}}`},
		{"missing definitions", `{"paths": {}}`},
		{"paths not an object", `{"paths": [], "definitions": {}}`},
		{"definitions not an object", `{"paths": {}, "definitions": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestParse_YAML(t *testing.T) {
	data := `
swagger: "2.0"
paths:
  /volume:
    get:
      responses:
        200:
          description: OK
          schema:
            $ref: '#/definitions/Volume'
definitions:
  Volume:
    type: object
`
	doc, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)

	item := doc.Paths()["/volume"].(map[string]any)
	responses := item["get"].(map[string]any)["responses"].(map[string]any)
	assert.Contains(t, responses, "200", "integer keys are stringified")
	assert.Equal(t, []string{"Volume"}, ExtractRefs(doc.Paths()).Sorted())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("spec.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("SPEC.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("spec.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("spec"))
}

func TestEncode_TabIndentedWithoutHTMLEscaping(t *testing.T) {
	doc, err := Parse([]byte(`{"paths": {}, "definitions": {"A": {"description": "<a> & b", "maximum": 18446744073709551615}}}`), FormatJSON)
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "{\n\t\""), "want tab indentation, got %q", s)
	assert.Contains(t, s, `"<a> & b"`)
	assert.Contains(t, s, "18446744073709551615", "numbers keep their precision")
}

func TestLoadAndWrite(t *testing.T) {
	dir := t.TempDir()

	doc, err := Load(filepath.Join("testdata", "volume.json"))
	require.NoError(t, err)

	out := filepath.Join(dir, "out.json")
	require.NoError(t, doc.Write(out))

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, sortedKeys(doc.Paths()), sortedKeys(again.Paths()))
	assert.Equal(t, sortedKeys(doc.Definitions()), sortedKeys(again.Definitions()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
