package aramex

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tournevent/aramex/pkg/shipper"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// violations checks req against its struct tags and reports every violated
// field at once, keyed by its JSON path.
func violations(req any) []shipper.Notification {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []shipper.Notification{{Code: "request", Message: err.Error()}}
	}

	details := make([]shipper.Notification, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		details = append(details, shipper.Notification{
			Code:    path,
			Message: path + " " + describe(fe),
		})
	}
	return details
}

func validationError(op Operation, details []shipper.Notification) *shipper.Error {
	fields := make([]string, len(details))
	for i, d := range details {
		fields[i] = d.Code
	}
	return shipper.NewError(carrierName, shipper.KindValidation,
		"validation failed: "+strings.Join(fields, ", ")).
		WithOperation(op.Name).
		WithDetails(details)
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must contain at least " + fe.Param() + " item(s)"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "iso3166_1_alpha2":
		return "must be an ISO 3166-1 alpha-2 country code"
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
