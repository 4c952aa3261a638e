// Package pagination follows Link rel="next" headers, turning a chain of
// pages into a lazy, single-pass sequence of responses.
//
// Link following is unbounded by default: a server that links back to an
// earlier page produces an endless sequence. Use WithMaxHops to cap it.
package pagination

import (
	"errors"
	"fmt"
	"iter"
	"net/url"

	"github.com/abdul-hamid-achik/linkwalk/packages/http"
	"github.com/abdul-hamid-achik/linkwalk/packages/link"
)

// ErrNoMorePages is returned by Next when HasNext reports false.
var ErrNoMorePages = errors.New("no more pages")

type Option func(*SequentialLinkIterator)

// WithMaxHops stops following links after n follow-up requests. n <= 0
// means unbounded.
func WithMaxHops(n int) Option {
	return func(it *SequentialLinkIterator) {
		it.maxHops = n
	}
}

// SequentialLinkIterator is a forward-only cursor over a chain of pages. The
// current response is the one the next link is read from; each call to Next
// issues exactly one GET.
type SequentialLinkIterator struct {
	client  http.Getter
	current *http.Response
	next    *url.URL
	hops    int
	maxHops int
}

// NewSequentialLinkIterator wraps initial and client without touching the
// network. The client is borrowed, not owned.
func NewSequentialLinkIterator(initial *http.Response, client http.Getter, opts ...Option) *SequentialLinkIterator {
	it := &SequentialLinkIterator{
		client:  client,
		current: initial,
	}
	for _, opt := range opts {
		opt(it)
	}
	it.next = nextLink(initial)
	return it
}

// HasNext reports whether the current response links to another page. It
// never performs I/O.
func (it *SequentialLinkIterator) HasNext() bool {
	if it.next == nil {
		return false
	}
	return it.maxHops <= 0 || it.hops < it.maxHops
}

// Next fetches the linked page, makes it current and returns it. A failed
// GET leaves the iterator where it was.
func (it *SequentialLinkIterator) Next() (*http.Response, error) {
	if !it.HasNext() {
		return nil, ErrNoMorePages
	}
	target := it.next
	resp, err := it.client.Get(target)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("get %s: nil response", target)
	}
	it.current = resp
	it.hops++
	it.next = nextLink(resp)
	return resp, nil
}

// Current returns the most recently fetched response, or the initial one.
func (it *SequentialLinkIterator) Current() *http.Response {
	return it.current
}

// Hops returns the number of pages fetched so far.
func (it *SequentialLinkIterator) Hops() int {
	return it.hops
}

// NextURL returns the link Next would follow, or nil.
func (it *SequentialLinkIterator) NextURL() *url.URL {
	if !it.HasNext() {
		return nil
	}
	return it.next
}

// Pages yields initial and then every page reachable through next links. On
// a failed GET it yields (nil, err) once and stops.
func Pages(initial *http.Response, client http.Getter, opts ...Option) iter.Seq2[*http.Response, error] {
	return func(yield func(*http.Response, error) bool) {
		it := NewSequentialLinkIterator(initial, client, opts...)
		if !yield(it.Current(), nil) {
			return
		}
		for it.HasNext() {
			resp, err := it.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(resp, nil) {
				return
			}
		}
	}
}

func nextLink(resp *http.Response) *url.URL {
	if resp == nil {
		return nil
	}
	u, ok := link.Next(resp.Headers())
	if !ok {
		return nil
	}
	return u
}
