package bedrockai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weatherParams struct {
	City  string  `json:"city" desc:"City name" required:"true"`
	Units string  `json:"units" desc:"Temperature units"`
	Days  int     `json:"days"`
	Lat   float64 `json:"lat"`
	Exact bool    `json:"exact"`
}

func TestSchemaFor(t *testing.T) {
	raw, err := SchemaFor[weatherParams]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"city"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	city := props["city"].(map[string]any)
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "City name", city["description"])

	assert.Equal(t, "integer", props["days"].(map[string]any)["type"])
	assert.Equal(t, "number", props["lat"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["exact"].(map[string]any)["type"])
}

func TestSchemaBuilderRefinement(t *testing.T) {
	raw, err := SchemaFrom[weatherParams]().
		Desc("days", "Forecast length").
		Enum("units", "celsius", "fahrenheit").
		Required("units").
		Build()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.ElementsMatch(t, []any{"city", "units"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Equal(t, "Forecast length", props["days"].(map[string]any)["description"])
	assert.Equal(t, []any{"celsius", "fahrenheit"}, props["units"].(map[string]any)["enum"])
}

func TestSchemaForNestedAndSlices(t *testing.T) {
	type point struct {
		X float64 `json:"x" required:"true"`
		Y float64 `json:"y"`
	}
	type route struct {
		Name   string  `json:"name"`
		Points []point `json:"points"`
		Tags   []string `json:"tags"`
	}

	raw, err := SchemaFor[route]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	props := schema["properties"].(map[string]any)

	points := props["points"].(map[string]any)
	assert.Equal(t, "array", points["type"])
	items := points["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	assert.Equal(t, []any{"x"}, items["required"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])
}

func TestMustSchemaFor(t *testing.T) {
	assert.NotPanics(t, func() {
		raw := MustSchemaFor[weatherParams]()
		assert.NotEmpty(t, raw)
	})
}
