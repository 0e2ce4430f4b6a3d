package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSONSchema(t *testing.T) {
	entries, err := FS.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := FS.ReadFile(entry.Name())
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			_, hasType := schemaObj["type"]
			assert.True(t, hasType, "schema should declare a type")
		})
	}
}
