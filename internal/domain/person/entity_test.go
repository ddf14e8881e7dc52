package person

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/PatentLens/pkg/errors"
)

func TestKindValid(t *testing.T) {
	assert.True(t, KindLegalEntity.Valid())
	assert.True(t, KindSoleProprietor.Valid())
	assert.True(t, KindIndividual.Valid())
	assert.False(t, Kind(0).Valid())
	assert.False(t, Kind(4).Valid())
}

func TestPersonValidate(t *testing.T) {
	p := &Person{Kind: KindLegalEntity, TaxNumber: "7701234567", FullName: "OOO Vector"}
	assert.NoError(t, p.Validate())

	bad := &Person{Kind: Kind(9), TaxNumber: "1", FullName: "X"}
	assert.True(t, errors.IsCode(bad.Validate(), errors.ErrCodePersonKindInvalid))

	blank := &Person{Kind: KindIndividual, TaxNumber: "  ", FullName: "X"}
	assert.True(t, errors.IsInvalidParam(blank.Validate()))
}

func TestHasSupport(t *testing.T) {
	p := &Person{SupportType: "grant"}
	assert.True(t, p.HasSupport())
	p.SupportType = "   "
	assert.False(t, p.HasSupport())
}

func TestPartialUpdateEmpty(t *testing.T) {
	var upd *PartialUpdate
	assert.True(t, upd.Empty())
	assert.True(t, (&PartialUpdate{}).Empty())

	name := "New Name"
	assert.False(t, (&PartialUpdate{FullName: &name}).Empty())
}
