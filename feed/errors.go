package feed

import (
	"fmt"
)

// FetchError reports a transport failure or a non-success response while
// retrieving a remote feed.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("feed: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a document that cannot be read as a feed at all.
// Individual malformed rows never produce one.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("feed: parse line %d: %s", e.Line, e.Reason)
	}
	return "feed: parse: " + e.Reason
}
