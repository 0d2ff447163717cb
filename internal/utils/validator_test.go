package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedThing struct {
	Name  string `validate:"required,min=1,max=50,slugable"`
	Grade int    `validate:"gte=0,lte=5"`
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	assert.NoError(t, ValidateStruct(&namedThing{Name: "Phone", Grade: 5}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&namedThing{Name: "!!!", Grade: 6})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 2)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "slugable", byField["name"].Tag)
	assert.Equal(t, "lte", byField["grade"].Tag)
	assert.Equal(t, "Grade must be less than or equal to 5", byField["grade"].Message)
}
