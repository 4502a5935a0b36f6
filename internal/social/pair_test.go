package social

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "friendgraph/pkg/errors"
)

func TestCanonicalPair_Orders(t *testing.T) {
	low, high := CanonicalPair("b", "a")
	assert.Equal(t, "a", low)
	assert.Equal(t, "b", high)

	low, high = CanonicalPair("a", "b")
	assert.Equal(t, "a", low)
	assert.Equal(t, "b", high)
}

func TestCanonicalPair_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{idAlice, idBob},
		{idBob, idCarol},
		{"zz", "aa"},
		{"1", "2"},
	}
	for _, p := range pairs {
		lowAB, highAB := CanonicalPair(p[0], p[1])
		lowBA, highBA := CanonicalPair(p[1], p[0])
		assert.Equal(t, lowAB, lowBA)
		assert.Equal(t, highAB, highBA)
		assert.Less(t, lowAB, highAB)
	}
}

func TestValidateLink_MissingID(t *testing.T) {
	err := ValidateLink("", idBob)
	assert.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	err = ValidateLink(idAlice, "")
	assert.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestValidateLink_SelfLink(t *testing.T) {
	for _, id := range []string{idAlice, idBob, "x"} {
		err := ValidateLink(id, id)
		assert.Error(t, err)
		assert.IsType(t, &apperrors.ErrSelfLink{}, err)
	}
}

func TestValidateLink_MissingCheckedBeforeSelf(t *testing.T) {
	// Two empty IDs are equal, but the missing-identifier rule wins.
	err := ValidateLink("", "")
	assert.IsType(t, &apperrors.ErrMissingField{}, err)
}

func TestValidateLink_Valid(t *testing.T) {
	assert.NoError(t, ValidateLink(idAlice, idBob))
}
