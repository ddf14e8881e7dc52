// Package patent implements the Patent bounded context: the aggregate root,
// its composite key, kind enumeration, and invariant enforcement.  All
// business rules that concern patents live here; persistence is handled by
// the repository layer.
package patent

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/PatentLens/pkg/errors"
)

// Kind is the patent kind enumeration.  Values mirror the registry encoding.
type Kind int

const (
	// KindInvention is a patent for an invention.
	KindInvention Kind = 1
	// KindUtilityModel is a patent for a utility model.
	KindUtilityModel Kind = 2
	// KindIndustrialDesign is a patent for an industrial design.
	KindIndustrialDesign Kind = 3
)

// Valid reports whether k is one of the known patent kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInvention, KindUtilityModel, KindIndustrialDesign:
		return true
	}
	return false
}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInvention:
		return "invention"
	case KindUtilityModel:
		return "utility_model"
	case KindIndustrialDesign:
		return "industrial_design"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key is the composite primary key of a patent.  No two patents share the
// same (Kind, RegNumber) pair.
type Key struct {
	Kind      Kind
	RegNumber int64
}

// String renders the key as "kind/reg_number" for logs and error details.
func (k Key) String() string {
	return fmt.Sprintf("%d/%d", int(k.Kind), k.RegNumber)
}

// Validate checks the key's fields.
func (k Key) Validate() error {
	if !k.Kind.Valid() {
		return errors.New(errors.ErrCodePatentKindInvalid,
			fmt.Sprintf("unknown patent kind %d", int(k.Kind)))
	}
	if k.RegNumber <= 0 {
		return errors.InvalidParam("patent reg_number must be positive")
	}
	return nil
}

// Patent is the aggregate root of the patent domain.
type Patent struct {
	Kind           Kind       `json:"kind"`
	RegNumber      int64      `json:"reg_number"`
	RegDate        *time.Time `json:"reg_date,omitempty"`
	ApplDate       *time.Time `json:"appl_date,omitempty"`
	ApplNumber     string     `json:"appl_number,omitempty"`
	Name           string     `json:"name"`
	AuthorRaw      string     `json:"author_raw,omitempty"`
	OwnerRaw       string     `json:"owner_raw,omitempty"`
	CountryCode    string     `json:"country_code,omitempty"`
	Address        string     `json:"address,omitempty"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Actual         bool       `json:"actual"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	PublicationURL string     `json:"publication_url,omitempty"`

	// AuthorCount is derived from AuthorRaw at upsert time and persisted so
	// grouped statistics never re-parse free text in SQL.
	AuthorCount int `json:"author_count"`
}

// Key returns the patent's composite key.
func (p *Patent) Key() Key {
	return Key{Kind: p.Kind, RegNumber: p.RegNumber}
}

// Validate enforces the aggregate's invariants prior to persistence.
func (p *Patent) Validate() error {
	if err := p.Key().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.InvalidParam("patent name is required")
	}
	return nil
}

// Normalize recomputes derived fields.  Call before every save.
func (p *Patent) Normalize() {
	p.CountryCode = strings.ToUpper(strings.TrimSpace(p.CountryCode))
	p.AuthorCount = CountAuthors(p.AuthorRaw)
}

// CountAuthors parses the raw author string into a number of distinct
// authors.  Authors are comma-separated in registry exports; blank segments
// are ignored so trailing separators do not inflate the count.
func CountAuthors(raw string) int {
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	n := 0
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

// Holder is a (tax number, full name) pair describing one recorded owner of
// a patent, produced by the listing join.
type Holder struct {
	TaxNumber string `json:"tax_number"`
	FullName  string `json:"full_name"`
}

// WithHolders couples a patent with its aggregated holder list.  A patent
// with no ownership rows carries an empty, non-nil list.
type WithHolders struct {
	Patent
	Holders []Holder `json:"patent_holders"`
}
