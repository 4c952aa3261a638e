package http

import (
	"fmt"
	"iter"
	"net/http"
	"sort"
	"strings"
)

// Header is a single name/value pair. It is a value type and compares
// with == on both fields.
type Header struct {
	Name  string
	Value string
}

// NewHeader builds a Header. Neither the name nor the value is validated.
func NewHeader(name, value string) Header {
	return Header{Name: name, Value: value}
}

func (h Header) String() string {
	return fmt.Sprintf("Header{name='%s', value='%s'}", h.Name, h.Value)
}

// Headers is an ordered collection of Header values. Duplicate names are
// kept in insertion order and never merged. The zero value is the empty
// collection.
//
// Name lookups (Find, Contains, Values) use exact, case-sensitive matching.
// Response.Header offers a case-insensitive lookup for callers that want
// HTTP semantics.
type Headers struct {
	list []Header
}

// NewHeaders builds a collection from the given headers, in order.
func NewHeaders(headers ...Header) Headers {
	if len(headers) == 0 {
		return Headers{}
	}
	list := make([]Header, len(headers))
	copy(list, headers)
	return Headers{list: list}
}

// EmptyHeaders returns the collection with no headers.
func EmptyHeaders() Headers {
	return Headers{}
}

// FromHTTPHeader converts a net/http header map. Map iteration order is
// random, so names are sorted; values for a name keep their wire order.
func FromHTTPHeader(h http.Header) Headers {
	if len(h) == 0 {
		return Headers{}
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var list []Header
	for _, name := range names {
		for _, value := range h[name] {
			list = append(list, Header{Name: name, Value: value})
		}
	}
	return Headers{list: list}
}

// Find returns the first header whose name equals name.
func (hs Headers) Find(name string) (Header, bool) {
	for _, h := range hs.list {
		if h.Name == name {
			return h, true
		}
	}
	return Header{}, false
}

// Contains reports whether a header named name exists.
func (hs Headers) Contains(name string) bool {
	_, ok := hs.Find(name)
	return ok
}

// Values returns every value stored under name, in insertion order.
func (hs Headers) Values(name string) []string {
	var values []string
	for _, h := range hs.list {
		if h.Name == name {
			values = append(values, h.Value)
		}
	}
	return values
}

func (hs Headers) Len() int {
	return len(hs.list)
}

func (hs Headers) IsEmpty() bool {
	return len(hs.list) == 0
}

// All iterates the headers in insertion order.
func (hs Headers) All() iter.Seq[Header] {
	return func(yield func(Header) bool) {
		for _, h := range hs.list {
			if !yield(h) {
				return
			}
		}
	}
}

// Slice returns a copy of the headers.
func (hs Headers) Slice() []Header {
	if len(hs.list) == 0 {
		return nil
	}
	out := make([]Header, len(hs.list))
	copy(out, hs.list)
	return out
}

// With returns a new collection with headers appended after the existing ones.
func (hs Headers) With(headers ...Header) Headers {
	list := make([]Header, 0, len(hs.list)+len(headers))
	list = append(list, hs.list...)
	list = append(list, headers...)
	return NewHeaders(list...)
}

// Equal reports whether both collections hold the same headers in the same order.
func (hs Headers) Equal(other Headers) bool {
	if len(hs.list) != len(other.list) {
		return false
	}
	for i := range hs.list {
		if hs.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

// HTTPHeader converts the collection into a net/http header map.
func (hs Headers) HTTPHeader() http.Header {
	out := make(http.Header, len(hs.list))
	for _, h := range hs.list {
		out[h.Name] = append(out[h.Name], h.Value)
	}
	return out
}

func (hs Headers) String() string {
	parts := make([]string, len(hs.list))
	for i, h := range hs.list {
		parts[i] = h.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
