package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Accessors(t *testing.T) {
	hs := NewHeaders(NewHeader("Content-Type", "application/json"))
	resp := NewResponse(201, "Created", hs, `{"items":[{"id":1},{"id":2}]}`)

	assert.Equal(t, 201, resp.StatusCode())
	assert.Equal(t, "Created", resp.StatusMessage())
	assert.True(t, hs.Equal(resp.Headers()))
	assert.Equal(t, "application/json", resp.Header("content-type"))
	assert.Equal(t, "", resp.Header("X-Missing"))
	assert.Equal(t, `[1,2]`, resp.JSON("items.#.id").Raw)

	v, err := resp.BodyJSON()
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, v)
}

func TestResponse_BodyJSONInvalid(t *testing.T) {
	_, err := NewResponse(200, "OK", EmptyHeaders(), "not json").BodyJSON()
	assert.Error(t, err)
}

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := NewResponse(tt.statusCode, "", EmptyHeaders(), "")
		assert.Equal(t, tt.expected, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
	}
}

func TestResponse_StatusClasses(t *testing.T) {
	assert.True(t, NewResponse(301, "", EmptyHeaders(), "").IsRedirect())
	assert.True(t, NewResponse(404, "", EmptyHeaders(), "").IsClientError())
	assert.True(t, NewResponse(503, "", EmptyHeaders(), "").IsServerError())
}

func TestResponse_IsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/html", false},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		resp := NewResponse(200, "OK", NewHeaders(NewHeader("Content-Type", tt.contentType)), "")
		assert.Equal(t, tt.expected, resp.IsJSON(), "Content-Type: %s", tt.contentType)
	}
}
