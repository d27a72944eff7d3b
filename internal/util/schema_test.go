package util

import (
	"testing"

	"github.com/hupe1980/agentsim/core"
	"github.com/stretchr/testify/assert"
)

type sampleArgs struct {
	Name    string   `json:"name" description:"Target name"`
	Count   int      `json:"count"`
	Ratio   float64  `json:"ratio,omitempty"`
	Tags    []string `json:"tags"`
	Note    *string  `json:"note" description:"Optional note"`
	hidden  string   `json:"hidden"` // unexported, never emitted
	Ignored string   `json:"-"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleArgs{})
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Len(t, props, 5)

	name := props["name"].(map[string]any)
	assert.Equal(t, "string", name["type"])
	assert.Equal(t, "Target name", name["description"])
	assert.Equal(t, "integer", props["count"].(map[string]any)["type"])
	assert.Equal(t, "number", props["ratio"].(map[string]any)["type"])
	assert.Equal(t, "array", props["tags"].(map[string]any)["type"])
	assert.Equal(t, "string", props["note"].(map[string]any)["type"])
	assert.NotContains(t, props, "Ignored")

	// omitempty and pointer fields are optional.
	assert.ElementsMatch(t, []string{"name", "count", "tags"}, schema["required"])
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema("not a struct")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateArguments(t *testing.T) {
	schema := CreateSchema(sampleArgs{})

	err := ValidateArguments("sample", map[string]any{
		"name":  "x",
		"count": 2.0, // JSON numbers decode as float64
		"tags":  []any{"a"},
	}, schema)
	assert.NoError(t, err)
}

func TestValidateArguments_MissingRequired(t *testing.T) {
	schema := CreateSchema(sampleArgs{})

	err := ValidateArguments("sample", map[string]any{"name": "x", "tags": []any{}}, schema)
	assert.Error(t, err)

	var argErr *core.ArgumentError
	assert.ErrorAs(t, err, &argErr)
	assert.Equal(t, "sample", argErr.Tool)
	assert.Equal(t, "count", argErr.Field)
}

func TestValidateArguments_TypeMismatch(t *testing.T) {
	schema := CreateSchema(sampleArgs{})

	err := ValidateArguments("sample", map[string]any{
		"name":  42,
		"count": 1.0,
		"tags":  []any{},
	}, schema)

	var argErr *core.ArgumentError
	assert.ErrorAs(t, err, &argErr)
	assert.Equal(t, "name", argErr.Field)

	// A fractional value is not an integer.
	err = ValidateArguments("sample", map[string]any{
		"name":  "x",
		"count": 1.5,
		"tags":  []any{},
	}, schema)
	assert.ErrorAs(t, err, &argErr)
	assert.Equal(t, "count", argErr.Field)
}

func TestValidateArguments_RequiredFromJSON(t *testing.T) {
	// Schemas round-tripped through JSON carry required as []any.
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "number"},
		},
		"required": []any{"x"},
	}

	var argErr *core.ArgumentError
	err := ValidateArguments("move", map[string]any{}, schema)
	assert.ErrorAs(t, err, &argErr)
	assert.Equal(t, "x", argErr.Field)

	assert.NoError(t, ValidateArguments("move", map[string]any{"x": 1.0}, schema))
}

func TestValidateArguments_ExtraFieldsAllowed(t *testing.T) {
	schema := CreateSchema(sampleArgs{})
	err := ValidateArguments("sample", map[string]any{
		"name":       "x",
		"count":      1.0,
		"tags":       []any{},
		"unexpected": "ignored",
	}, schema)
	assert.NoError(t, err)
}
