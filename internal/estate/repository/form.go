package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

// UnitForm is a unit form as typed by the user.
type UnitForm struct {
	UnitNumber string `json:"unitNumber" form:"unitNumber"`
	PropertyID string `json:"propertyId" form:"propertyId"`
	Floor      string `json:"floor" form:"floor"`
	Type       string `json:"type" form:"type"`
	Area       string `json:"area" form:"area"`
	RentValue  string `json:"rentValue" form:"rentValue"`
	SaleValue  string `json:"saleValue" form:"saleValue"`
	Status     string `json:"status" form:"status"`
	OwnerID    string `json:"ownerId" form:"ownerId"`
	TenantID   string `json:"tenantId" form:"tenantId"`
}

// DecodeUnitForm reads a unit form from a decoded JSON object. Fields sent
// as numbers are turned into their text form so JSON clients may send
// either.
func DecodeUnitForm(data map[string]any) (UnitForm, error) {
	var f UnitForm
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &f,
	})
	if err != nil {
		return UnitForm{}, err
	}
	if err := dec.Decode(data); err != nil {
		return UnitForm{}, fmt.Errorf("decode unit form: %w", err)
	}
	return f, nil
}

// ParseUnitForm converts the text fields of a unit form. Area and floor are
// required; rent and sale default to 0 when blank. Anything that is not a
// finite number rejects the whole submission. Type defaults to apartment
// and status to available, as on a fresh form.
func ParseUnitForm(f UnitForm) (UnitInput, error) {
	verr := &ValidationError{}

	in := UnitInput{
		UnitNumber: strings.TrimSpace(f.UnitNumber),
		PropertyID: strings.TrimSpace(f.PropertyID),
		Type:       domain.UnitType(strings.TrimSpace(f.Type)),
		Status:     domain.UnitStatus(strings.TrimSpace(f.Status)),
		OwnerID:    strings.TrimSpace(f.OwnerID),
		TenantID:   strings.TrimSpace(f.TenantID),
	}
	if in.Type == "" {
		in.Type = domain.UnitApartment
	}
	if in.Status == "" {
		in.Status = domain.UnitAvailable
	}
	if in.UnitNumber == "" {
		verr.add("unitNumber", "required")
	}

	if s := strings.TrimSpace(f.Floor); s == "" {
		verr.add("floor", "required")
	} else if n, err := strconv.Atoi(s); err != nil {
		verr.add("floor", "must be a whole number")
	} else {
		in.Floor = n
	}

	if v, ok := parseAmount(f.Area, true, "area", verr); ok {
		in.Area = v
	}
	if v, ok := parseAmount(f.RentValue, false, "rentValue", verr); ok {
		in.RentValue = v
	}
	if v, ok := parseAmount(f.SaleValue, false, "saleValue", verr); ok {
		in.SaleValue = v
	}

	if err := verr.orNil(); err != nil {
		return UnitInput{}, err
	}
	return in, nil
}

func parseAmount(raw string, required bool, field string, verr *ValidationError) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if required {
			verr.add(field, "required")
			return 0, false
		}
		return 0, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		verr.add(field, "must be a number")
		return 0, false
	}
	return v, true
}
