package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyHeaders_Equality(t *testing.T) {
	a := EmptyHeaders()
	b := NewHeaders()

	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
	assert.Equal(t, Headers{}, a)
	assert.True(t, a.IsEmpty())

	for _, name := range []string{"Link", "", "Content-Type"} {
		assert.False(t, a.Contains(name))
		assert.False(t, b.Contains(name))
	}
}

func TestHeaders_OrderPreserved(t *testing.T) {
	a := NewHeader("Accept", "text/plain")
	b := NewHeader("Accept", "application/json")
	hs := NewHeaders(a, b)

	var got []Header
	for h := range hs.All() {
		got = append(got, h)
	}

	assert.Equal(t, []Header{a, b}, got)
	assert.Equal(t, 2, hs.Len())
	assert.Equal(t, []string{"text/plain", "application/json"}, hs.Values("Accept"))
}

func TestHeaders_FindReturnsFirst(t *testing.T) {
	hs := NewHeaders(
		NewHeader("Set-Cookie", "a=1"),
		NewHeader("Set-Cookie", "b=2"),
	)

	h, ok := hs.Find("Set-Cookie")
	require.True(t, ok)
	assert.Equal(t, "a=1", h.Value)
}

func TestHeaders_FindIsCaseSensitive(t *testing.T) {
	hs := NewHeaders(NewHeader("Link", "<http://example.com>; rel=\"next\""))

	assert.True(t, hs.Contains("Link"))
	assert.False(t, hs.Contains("link"))
	assert.False(t, hs.Contains("LINK"))
}

func TestHeaders_EmptyNameAndValue(t *testing.T) {
	hs := NewHeaders(NewHeader("", ""))

	h, ok := hs.Find("")
	require.True(t, ok)
	assert.Equal(t, Header{}, h)
}

func TestHeaders_Immutable(t *testing.T) {
	input := []Header{NewHeader("A", "1")}
	hs := NewHeaders(input...)
	input[0] = NewHeader("B", "2")

	assert.True(t, hs.Contains("A"))

	out := hs.Slice()
	out[0] = NewHeader("C", "3")
	assert.True(t, hs.Contains("A"))
	assert.False(t, hs.Contains("C"))
}

func TestHeaders_With(t *testing.T) {
	base := NewHeaders(NewHeader("A", "1"))
	extended := base.With(NewHeader("B", "2"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, []Header{NewHeader("A", "1"), NewHeader("B", "2")}, extended.Slice())
}

func TestHeaders_Equal(t *testing.T) {
	ab := NewHeaders(NewHeader("A", "1"), NewHeader("B", "2"))
	ba := NewHeaders(NewHeader("B", "2"), NewHeader("A", "1"))

	assert.True(t, ab.Equal(NewHeaders(NewHeader("A", "1"), NewHeader("B", "2"))))
	assert.False(t, ab.Equal(ba))
	assert.False(t, ab.Equal(EmptyHeaders()))
}

func TestHeader_Equality(t *testing.T) {
	assert.Equal(t, NewHeader("A", "1"), NewHeader("A", "1"))
	assert.NotEqual(t, NewHeader("A", "1"), NewHeader("a", "1"))
	assert.Equal(t, "Header{name='A', value='1'}", NewHeader("A", "1").String())
}

func TestFromHTTPHeader(t *testing.T) {
	h := http.Header{}
	h.Add("X-B", "2")
	h.Add("X-A", "1")
	h.Add("X-B", "3")

	hs := FromHTTPHeader(h)

	assert.Equal(t, []Header{
		NewHeader("X-A", "1"),
		NewHeader("X-B", "2"),
		NewHeader("X-B", "3"),
	}, hs.Slice())
	assert.Equal(t, EmptyHeaders(), FromHTTPHeader(nil))
}

func TestHeaders_HTTPHeader(t *testing.T) {
	hs := NewHeaders(NewHeader("X-A", "1"), NewHeader("X-A", "2"))
	assert.Equal(t, http.Header{"X-A": {"1", "2"}}, hs.HTTPHeader())
}
