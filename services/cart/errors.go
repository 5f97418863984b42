package cart

import (
	"fmt"
	"net/http"
)

// NotAvailableError is the domain-level rejection of an add: the
// product could be priced but its availability evaluated to false.
type NotAvailableError struct {
	ProductTitle string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("product %q is currently not available", e.ProductTitle)
}

func (e *NotAvailableError) GetHTTPErrorCode() int {
	return http.StatusServiceUnavailable
}
