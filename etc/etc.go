// Package etc holds the small helpers that have no better home.
package etc

import (
	"github.com/nrednav/cuid2"
)

// NewFreshID mints a collision-resistant identifier for sessions and
// log correlation.
func NewFreshID() string {
	return cuid2.Generate()
}
