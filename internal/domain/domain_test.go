package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Snowflake identifiers exceed JavaScript's safe integer range, so
// every model must serialize them as strings.
func TestModelIDsSerializeAsStrings(t *testing.T) {
	const bigID int64 = 1847304098434846720

	data, err := json.Marshal(&Product{ID: bigID, Name: "Kitadol 500mg", CategoryID: bigID})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"1847304098434846720"`)
	assert.Contains(t, string(data), `"category_id":"1847304098434846720"`)

	data, err = json.Marshal(&Category{ID: bigID, Name: "Paracetamol"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"1847304098434846720"`)

	data, err = json.Marshal(&Conversation{ID: bigID, UserMessage: "hola"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"1847304098434846720"`)
}

func TestProductUnmarshalsStringIDs(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id":"1847304098434846720","name":"Kitadol 500mg","category_id":"42"}`), &p))
	assert.EqualValues(t, 1847304098434846720, p.ID)
	assert.EqualValues(t, 42, p.CategoryID)
}
