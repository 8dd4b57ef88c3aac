package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Start string  `validate:"required,hhmm"`
	Date  string  `validate:"required,apptdate"`
	Count int     `validate:"gte=1,lte=10"`
	Note  *string `validate:"omitempty,max=5"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Start: "09:30", Date: "2025-03-10", Count: 1}))
	assert.NoError(t, Struct(sample{Start: "23:59", Date: "2025-03-10T10:00:00Z", Count: 10}))

	err := Struct(sample{Start: "24:00", Date: "tomorrow", Count: 0})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "sample.Start: failed hhmm")
		assert.Contains(t, err.Error(), "sample.Date: failed apptdate")
		assert.Contains(t, err.Error(), "sample.Count: failed gte=1")
	}

	long := "too long"
	assert.Error(t, Struct(sample{Start: "09:00", Date: "2025-03-10", Count: 1, Note: &long}))
}
