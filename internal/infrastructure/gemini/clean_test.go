package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONFencedBlock(t *testing.T) {
	raw := "```json\n{\"priority\": \"high\"}\n```"
	assert.Equal(t, `{"priority": "high"}`, CleanJSON(raw))
}

func TestCleanJSONSurroundingProse(t *testing.T) {
	raw := `Here is my suggestion:
{"assigneeId": "u1", "confidence": 0.8}
Let me know if you need anything else.`
	got := CleanJSON(raw)
	require.True(t, json.Valid([]byte(got)))
	assert.Equal(t, `{"assigneeId": "u1", "confidence": 0.8}`, got)
}

func TestCleanJSONComments(t *testing.T) {
	raw := `{
		// the busiest member
		"assigneeId": "u2", /* stable */
		"confidence": 0.7
	}`
	got := CleanJSON(raw)
	require.True(t, json.Valid([]byte(got)))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, "u2", parsed["assigneeId"])
}

func TestCleanJSONTrailingCommas(t *testing.T) {
	raw := `{"subtasks": [{"title": "a",}, {"title": "b"},],}`
	got := CleanJSON(raw)
	require.True(t, json.Valid([]byte(got)), "got %q", got)
}

func TestCleanJSONBracesInsideStrings(t *testing.T) {
	raw := `noise {"reasoning": "use {curly} braces, even \"quoted\" ones"} trailing`
	got := CleanJSON(raw)
	require.True(t, json.Valid([]byte(got)))

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, `use {curly} braces, even "quoted" ones`, parsed["reasoning"])
}

func TestCleanJSONArrayPayload(t *testing.T) {
	raw := "```\n[{\"title\": \"step one\"}, {\"title\": \"step two\"}]\n```"
	got := CleanJSON(raw)
	require.True(t, json.Valid([]byte(got)))
	assert.Equal(t, byte('['), got[0])
}

func TestCleanJSONNoBalancedSpan(t *testing.T) {
	assert.Equal(t, "not json at all", CleanJSON("  not json at all  "))
}
