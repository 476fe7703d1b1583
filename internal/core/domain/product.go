package domain

import "errors"

var ErrVendorNotLinked = errors.New("no vendor linked to this account")

// immediateFields are the product fields the backend accepts on the PATCH
// shortcut; everything else requires the full multipart update.
var immediateFields = map[string]struct{}{
	"price":         {},
	"salePrice":     {},
	"stockQuantity": {},
	"status":        {},
}

// ImmediateField reports whether the field may be patched in place.
func ImmediateField(name string) bool {
	_, ok := immediateFields[name]
	return ok
}
