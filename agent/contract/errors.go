package contract

import "errors"

// ErrConfiguration marks a registry that cannot route every category.
// It is only possible at startup; request handling never sees it.
var ErrConfiguration = errors.New("registry configuration invalid")
