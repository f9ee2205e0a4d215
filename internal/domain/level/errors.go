package level

import "errors"

// ErrBadCatalog marks a level catalog that fails its integrity check.
var ErrBadCatalog = errors.New("invalid level catalog")
