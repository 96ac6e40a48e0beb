// Package request is the decode-then-validate gate that runs before
// handler logic: a handler either receives a fully validated value or the
// request is terminated with a typed API error.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/aksumer/aksumer-api/internal/lib/api/apierror"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their wire names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Decode parses the request body as JSON into dst and runs its field
// validations. The returned error is always an *apierror.Error ready for
// rendering; the first failing field wins.
func Decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return apierror.InvalidJSONBody()
	}

	if err := validate.Struct(dst); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) || len(validateErrs) == 0 {
			return apierror.Internal()
		}

		return fieldError(validateErrs[0])
	}

	return nil
}

func fieldError(fe validator.FieldError) *apierror.Error {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return apierror.MissingParameter(field)
	case "email":
		return apierror.Validation(fmt.Sprintf("%s must be a valid email address", field))
	case "min":
		return apierror.Validation(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "max":
		return apierror.Validation(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	default:
		return apierror.InvalidParameter(field)
	}
}
