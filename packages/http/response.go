package http

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Response is a fully buffered HTTP response. It is never mutated after
// construction.
type Response struct {
	statusCode    int
	statusMessage string
	headers       Headers
	body          string
}

func NewResponse(statusCode int, statusMessage string, headers Headers, body string) *Response {
	return &Response{
		statusCode:    statusCode,
		statusMessage: statusMessage,
		headers:       NewHeaders(headers.list...),
		body:          body,
	}
}

func (r *Response) StatusCode() int {
	return r.statusCode
}

func (r *Response) StatusMessage() string {
	return r.statusMessage
}

func (r *Response) Headers() Headers {
	return r.headers
}

func (r *Response) Body() string {
	return r.body
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal([]byte(r.body), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// JSON evaluates a gjson path against the body.
func (r *Response) JSON(path string) gjson.Result {
	return gjson.Get(r.body, path)
}

// Header returns the first value whose name matches key case-insensitively.
func (r *Response) Header(key string) string {
	for h := range r.headers.All() {
		if strings.EqualFold(h.Name, key) {
			return h.Value
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.statusCode >= 300 && r.statusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.statusCode >= 400 && r.statusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.statusCode >= 500
}
