package catalog

import "errors"

// ErrProductNotFound indicates an unknown product id.
var ErrProductNotFound = errors.New("product not found")
