// Package filter implements persisted tax-number filters. A filter is a
// named set of tax numbers used as a scoping predicate by the listing and
// statistics operations; it never changes the join shape, only narrows it.
package filter

import (
	"strings"
	"time"

	"github.com/turtacn/PatentLens/pkg/errors"
)

// Filter is a persisted set of tax numbers.
type Filter struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	TaxNumbers []string  `json:"tax_numbers"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate enforces the filter's invariants prior to persistence.
func (f *Filter) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.InvalidParam("filter name is required")
	}
	if len(f.TaxNumbers) == 0 {
		return errors.New(errors.ErrCodeFilterEmpty, "filter must contain at least one tax number")
	}
	return nil
}

// Normalize trims and deduplicates the tax numbers, preserving first-seen
// order, and drops blank entries.
func (f *Filter) Normalize() {
	seen := make(map[string]struct{}, len(f.TaxNumbers))
	out := f.TaxNumbers[:0]
	for _, tn := range f.TaxNumbers {
		tn = strings.TrimSpace(tn)
		if tn == "" {
			continue
		}
		if _, ok := seen[tn]; ok {
			continue
		}
		seen[tn] = struct{}{}
		out = append(out, tn)
	}
	f.TaxNumbers = out
}
