package repository

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("unit_type", func(fl validator.FieldLevel) bool {
		return domain.UnitType(fl.Field().String()).Valid()
	})
	must("unit_status", func(fl validator.FieldLevel) bool {
		return domain.UnitStatus(fl.Field().String()).Valid()
	})
	must("ticket_status", func(fl validator.FieldLevel) bool {
		return domain.TicketStatus(fl.Field().String()).Valid()
	})
	must("guest_status", func(fl validator.FieldLevel) bool {
		return domain.GuestRequestStatus(fl.Field().String()).Valid()
	})
	must("role", func(fl validator.FieldLevel) bool {
		return access.Role(fl.Field().String()).Valid()
	})

	return v
}

// check validates v and converts failures to a *ValidationError.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		out.add(fe.Field(), reason)
	}
	return out
}
