package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"#/definitions/Volume", "Volume"},
		{"#/definitions/volume_group_instance", "volume_group_instance"},
		{"Volume", "Volume"},
		{"other.json#/definitions/Host", "Host"},
		{"#/definitions/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, RefName(tt.ref))
		})
	}
}

func TestExtractRefs(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{
			name:  "scalar",
			value: "#/definitions/Volume",
			want:  []string{},
		},
		{
			name:  "direct ref",
			value: map[string]any{"$ref": "#/definitions/Volume"},
			want:  []string{"Volume"},
		},
		{
			name: "nested mappings and sequences",
			value: map[string]any{
				"get": map[string]any{
					"parameters": []any{
						map[string]any{"schema": map[string]any{"$ref": "#/definitions/Query"}},
						map[string]any{"name": "id", "type": "string"},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"schema": map[string]any{
								"type":  "array",
								"items": map[string]any{"$ref": "#/definitions/Volume"},
							},
						},
						"default": map[string]any{
							"schema": map[string]any{"$ref": "#/definitions/ErrorResponse"},
						},
					},
				},
			},
			want: []string{"ErrorResponse", "Query", "Volume"},
		},
		{
			name: "duplicates collapse",
			value: []any{
				map[string]any{"$ref": "#/definitions/Volume"},
				map[string]any{"$ref": "#/definitions/Volume"},
				[]any{map[string]any{"$ref": "#/definitions/Volume"}},
			},
			want: []string{"Volume"},
		},
		{
			name: "ref value is not descended",
			value: map[string]any{
				"$ref": map[string]any{"$ref": "#/definitions/Hidden"},
			},
			want: []string{},
		},
		{
			name: "siblings of ref are still visited",
			value: map[string]any{
				"$ref":        "#/definitions/A",
				"allOf":       []any{map[string]any{"$ref": "#/definitions/B"}},
				"description": "x",
			},
			want: []string{"A", "B"},
		},
		{
			name:  "non-string ref is ignored",
			value: map[string]any{"$ref": 42},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRefs(tt.value)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestExtractRefs_NoDoubleDereference(t *testing.T) {
	value := map[string]any{
		"a": map[string]any{"$ref": "#/definitions/A"},
		"b": []any{map[string]any{"$ref": "#/definitions/B"}},
	}
	first := ExtractRefs(value)

	// Wrapping the extracted names as plain data yields nothing new.
	names := make([]any, 0, first.Len())
	for _, n := range first.Sorted() {
		names = append(names, n)
	}
	assert.Empty(t, ExtractRefs(map[string]any{"names": names}).Sorted())

	// Wrapping them as pointers again yields the same set.
	wrapped := make([]any, 0, first.Len())
	for _, n := range first.Sorted() {
		wrapped = append(wrapped, map[string]any{"$ref": "#/definitions/" + n})
	}
	assert.Equal(t, first.Sorted(), ExtractRefs(wrapped).Sorted())
}

func TestRefSet(t *testing.T) {
	s := NewRefSet("A", "B")
	s.Union(NewRefSet("B", "C"))

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("C"))
	assert.False(t, s.Has("D"))
	assert.Equal(t, []string{"A", "C"}, s.Minus(NewRefSet("B")).Sorted())
	assert.Equal(t, []string{"A", "B", "C"}, s.Sorted())
}
