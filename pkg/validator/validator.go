package validator

import (
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// amountRe accepts positive decimals with at most two fraction digits, the
// precision the payment form's amount input allows.
var amountRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func init() {
	validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !amountRe.MatchString(s) {
			return false
		}
		n, err := strconv.ParseFloat(s, 64)
		return err == nil && n > 0
	})

	// datetimelocal matches the HTML datetime-local input format,
	// minute precision and no zone.
	validate.RegisterValidation("datetimelocal", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02T15:04", fl.Field().String())
		return err == nil
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
