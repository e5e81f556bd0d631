package repository

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

func TestParseUnitForm(t *testing.T) {
	t.Run("valid with blank prices", func(t *testing.T) {
		in, err := ParseUnitForm(UnitForm{
			UnitNumber: " 12B ", PropertyID: "p1", Floor: "4", Type: "office", Area: "85", Status: "forRent",
		})
		require.NoError(t, err)
		assert.Equal(t, UnitInput{
			UnitNumber: "12B", PropertyID: "p1", Floor: 4, Type: domain.UnitOffice, Area: 85, Status: domain.UnitForRent,
		}, in)
	})

	cases := []struct {
		name   string
		form   UnitForm
		fields []string
	}{
		{"missing required", UnitForm{}, []string{"unitNumber", "floor", "area"}},
		{"malformed area", UnitForm{UnitNumber: "1", Floor: "1", Area: "big"}, []string{"area"}},
		{"NaN rent", UnitForm{UnitNumber: "1", Floor: "1", Area: "10", RentValue: "NaN"}, []string{"rentValue"}},
		{"infinite sale", UnitForm{UnitNumber: "1", Floor: "1", Area: "10", SaleValue: "+Inf"}, []string{"saleValue"}},
		{"fractional floor", UnitForm{UnitNumber: "1", Floor: "1.5", Area: "10"}, []string{"floor"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseUnitForm(tc.form)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Len(t, verr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"floor": "required", "area": "must be a number"}}
	assert.Equal(t, "invalid submission: area: must be a number, floor: required", err.Error())
}

func TestDecodeUnitForm(t *testing.T) {
	f, err := DecodeUnitForm(map[string]any{
		"unitNumber": "7",
		"propertyId": "p1",
		"floor":      json.Number("3"),
		"area":       120.5,
		"rentValue":  "900",
		"saleValue":  nil,
	})
	require.NoError(t, err)
	assert.Equal(t, UnitForm{UnitNumber: "7", PropertyID: "p1", Floor: "3", Area: "120.5", RentValue: "900"}, f)

	in, err := ParseUnitForm(f)
	require.NoError(t, err)
	assert.Equal(t, 3, in.Floor)
	assert.Equal(t, 120.5, in.Area)
}
