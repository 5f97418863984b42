package catalog

import (
	"fmt"
	"net/http"
)

// LookupError indicates that the remote product-api could not deliver
// priced product data: the fetch failed or returned a non-success
// status. Lookups are never retried.
type LookupError struct {
	URL string
	Err error
}

func newLookupError(url string, err error) *LookupError {
	return &LookupError{
		URL: url,
		Err: err,
	}
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("error looking up %s: %s", e.URL, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func (e *LookupError) GetHTTPErrorCode() int {
	return http.StatusInternalServerError
}
