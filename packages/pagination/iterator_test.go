package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/linkwalk/packages/http"
)

// fakeGetter serves canned responses by URL and records every call.
type fakeGetter struct {
	responses map[string]*http.Response
	errs      map[string]error
	calls     []string
}

func (f *fakeGetter) Get(u *url.URL) (*http.Response, error) {
	f.calls = append(f.calls, u.String())
	if err, ok := f.errs[u.String()]; ok {
		return nil, err
	}
	resp, ok := f.responses[u.String()]
	if !ok {
		return nil, fmt.Errorf("unexpected GET %s", u)
	}
	return resp, nil
}

func page(code int, body string, next string) *http.Response {
	headers := http.EmptyHeaders()
	if next != "" {
		headers = http.NewHeaders(http.NewHeader("Link", fmt.Sprintf("<%s>; rel=\"next\"", next)))
	}
	return http.NewResponse(code, "OK", headers, body)
}

const (
	firstURL  = "http://example.com/first"
	secondURL = "http://example.com/second"
)

func chain() (*http.Response, *fakeGetter) {
	initial := page(200, "0", firstURL)
	getter := &fakeGetter{responses: map[string]*http.Response{
		firstURL:  page(201, "1", secondURL),
		secondURL: page(202, "2", ""),
	}}
	return initial, getter
}

func TestIterator_DoesNotHaveNext(t *testing.T) {
	getter := &fakeGetter{}
	it := NewSequentialLinkIterator(page(202, "2", ""), getter)

	assert.False(t, it.HasNext())
	assert.Nil(t, it.NextURL())
	assert.Empty(t, getter.calls)
}

func TestIterator_ShouldFollowLinks(t *testing.T) {
	initial, getter := chain()
	it := NewSequentialLinkIterator(initial, getter)

	responses := "0"
	for it.HasNext() {
		resp, err := it.Next()
		require.NoError(t, err)
		responses += resp.Body()
	}

	assert.Equal(t, "012", responses)
	assert.Equal(t, []string{firstURL, secondURL}, getter.calls)
	assert.Equal(t, 2, it.Hops())
	assert.Equal(t, 202, it.Current().StatusCode())
}

func TestIterator_NoNetworkAtConstruction(t *testing.T) {
	initial, getter := chain()
	it := NewSequentialLinkIterator(initial, getter)

	assert.Empty(t, getter.calls)
	assert.Same(t, initial, it.Current())
}

func TestIterator_HasNextIsIdempotent(t *testing.T) {
	initial, getter := chain()
	it := NewSequentialLinkIterator(initial, getter)

	for i := 0; i < 5; i++ {
		assert.True(t, it.HasNext())
	}
	assert.Empty(t, getter.calls)

	_, err := it.Next()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.True(t, it.HasNext())
	}
	assert.Len(t, getter.calls, 1)

	_, err = it.Next()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.False(t, it.HasNext())
	}
	assert.Len(t, getter.calls, 2)
}

func TestIterator_NextWhenExhausted(t *testing.T) {
	getter := &fakeGetter{}
	it := NewSequentialLinkIterator(page(200, "0", ""), getter)

	resp, err := it.Next()

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNoMorePages)
	assert.Empty(t, getter.calls)
}

func TestIterator_LinkWithoutNextRel(t *testing.T) {
	getter := &fakeGetter{}
	initial := http.NewResponse(200, "OK", http.NewHeaders(
		http.NewHeader("Link", `<http://example.com/last>; rel="last"`),
	), "0")

	it := NewSequentialLinkIterator(initial, getter)

	assert.False(t, it.HasNext())
	_, err := it.Next()
	assert.ErrorIs(t, err, ErrNoMorePages)
	assert.Empty(t, getter.calls)
}

func TestIterator_TransportErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	initial, getter := chain()
	getter.errs = map[string]error{secondURL: boom}
	it := NewSequentialLinkIterator(initial, getter)

	_, err := it.Next()
	require.NoError(t, err)

	resp, err := it.Next()
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), secondURL)

	// state is untouched, so the same link is retried
	assert.True(t, it.HasNext())
	assert.Equal(t, secondURL, it.NextURL().String())
	assert.Equal(t, "1", it.Current().Body())
	assert.Equal(t, 1, it.Hops())
}

func TestIterator_NilResponseIsAnError(t *testing.T) {
	getter := http.GetterFunc(func(u *url.URL) (*http.Response, error) {
		return nil, nil
	})
	it := NewSequentialLinkIterator(page(200, "0", firstURL), getter)

	resp, err := it.Next()
	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestIterator_WithMaxHops(t *testing.T) {
	loop := page(200, "x", firstURL)
	getter := &fakeGetter{responses: map[string]*http.Response{firstURL: loop}}
	it := NewSequentialLinkIterator(loop, getter, WithMaxHops(3))

	count := 0
	for it.HasNext() {
		_, err := it.Next()
		require.NoError(t, err)
		count++
	}

	assert.Equal(t, 3, count)
	assert.Len(t, getter.calls, 3)
	_, err := it.Next()
	assert.ErrorIs(t, err, ErrNoMorePages)
}

func TestPages_ChainedPagination(t *testing.T) {
	initial, getter := chain()

	var bodies string
	var codes []int
	for resp, err := range Pages(initial, getter) {
		require.NoError(t, err)
		bodies += resp.Body()
		codes = append(codes, resp.StatusCode())
	}

	assert.Equal(t, "012", bodies)
	assert.Equal(t, []int{200, 201, 202}, codes)
	assert.Equal(t, []string{firstURL, secondURL}, getter.calls)
}

func TestPages_SinglePage(t *testing.T) {
	getter := &fakeGetter{}

	var count int
	for _, err := range Pages(page(200, "0", ""), getter) {
		require.NoError(t, err)
		count++
	}

	assert.Equal(t, 1, count)
	assert.Empty(t, getter.calls)
}

func TestPages_IsLazy(t *testing.T) {
	initial, getter := chain()

	for resp, err := range Pages(initial, getter) {
		require.NoError(t, err)
		assert.Equal(t, "0", resp.Body())
		break
	}

	assert.Empty(t, getter.calls)
}

func TestPages_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	initial, getter := chain()
	getter.errs = map[string]error{firstURL: boom}

	var bodies []string
	var errs []error
	for resp, err := range Pages(initial, getter) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		bodies = append(bodies, resp.Body())
	}

	assert.Equal(t, []string{"0"}, bodies)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestPages_NextOnSecondLinkLine(t *testing.T) {
	initial := http.NewResponse(200, "OK", http.NewHeaders(
		http.NewHeader("Link", `<http://example.com/last>; rel="last"`),
		http.NewHeader("Link", fmt.Sprintf(`<%s>; rel="next"`, firstURL)),
	), "0")
	getter := &fakeGetter{responses: map[string]*http.Response{firstURL: page(200, "1", "")}}

	var bodies string
	for resp, err := range Pages(initial, getter) {
		require.NoError(t, err)
		bodies += resp.Body()
	}

	assert.Equal(t, "01", bodies)
	assert.Equal(t, []string{firstURL}, getter.calls)
}
