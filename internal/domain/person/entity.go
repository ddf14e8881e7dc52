// Package person implements the Person bounded context: registry entities
// identified by tax number, their kind enumeration, and the aggregate
// statistics the analytics surface is built from.
package person

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/PatentLens/pkg/errors"
)

// Kind is the person kind enumeration. Values mirror the registry encoding.
type Kind int

const (
	// KindLegalEntity is a registered company.
	KindLegalEntity Kind = 1
	// KindSoleProprietor is an individual entrepreneur.
	KindSoleProprietor Kind = 2
	// KindIndividual is a natural person.
	KindIndividual Kind = 3
)

// Valid reports whether k is one of the known person kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindLegalEntity, KindSoleProprietor, KindIndividual:
		return true
	}
	return false
}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindLegalEntity:
		return "legal_entity"
	case KindSoleProprietor:
		return "sole_proprietor"
	case KindIndividual:
		return "individual"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Person is the aggregate root of the person domain. TaxNumber is the
// primary key; every ownership edge references it.
type Person struct {
	Kind      Kind   `json:"kind"`
	TaxNumber string `json:"tax_number"`
	FullName  string `json:"full_name"`
	ShortName string `json:"short_name,omitempty"`

	// LegalAddress is the registered address; Region holds the region or
	// city segment used for regional statistics.
	LegalAddress string `json:"legal_address,omitempty"`
	FactAddress  string `json:"fact_address,omitempty"`
	Region       string `json:"region,omitempty"`

	RegDate *time.Time `json:"reg_date,omitempty"`

	OGRN string `json:"ogrn,omitempty"`
	INN  string `json:"inn,omitempty"`

	// Category, OKOPF and OKVAD are registry classifier labels used for
	// the top-N breakdowns.
	Category string `json:"category,omitempty"`
	OKOPF    string `json:"okopf,omitempty"`
	OKVAD    string `json:"okvad,omitempty"`

	// InCluster marks members of the innovation cluster.
	InCluster bool `json:"in_cluster"`

	// SupportType is the state support program label, empty when the
	// person receives none.
	SupportType string `json:"support_type,omitempty"`

	Active bool `json:"active"`

	// PatentCount is derived from the ownerships table and refreshed on
	// every edge mutation.
	PatentCount int `json:"patent_count"`
}

// Validate enforces the aggregate's invariants prior to persistence.
func (p *Person) Validate() error {
	if !p.Kind.Valid() {
		return errors.New(errors.ErrCodePersonKindInvalid,
			fmt.Sprintf("unknown person kind %d", int(p.Kind)))
	}
	if strings.TrimSpace(p.TaxNumber) == "" {
		return errors.InvalidParam("person tax_number is required")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return errors.InvalidParam("person full_name is required")
	}
	return nil
}

// Normalize trims identifier fields. Call before every save.
func (p *Person) Normalize() {
	p.TaxNumber = strings.TrimSpace(p.TaxNumber)
	p.OGRN = strings.TrimSpace(p.OGRN)
	p.INN = strings.TrimSpace(p.INN)
}

// HasSupport reports whether the person receives any state support.
func (p *Person) HasSupport() bool {
	return strings.TrimSpace(p.SupportType) != ""
}
