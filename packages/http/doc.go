// Package http provides the HTTP model and client used by linkwalk.
//
// It contains:
//   - Header and Headers, an ordered collection that keeps duplicate names
//   - Response, an immutable, fully buffered response
//   - Getter, the single-operation client capability the pagination and
//     timing packages are written against
//   - Client, a net/http backed Getter with timeouts, redirect handling,
//     default headers, rate limiting and request ids
package http
