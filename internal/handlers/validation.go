package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest returns a readable message listing every failed field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return errors.New(getAllErrorMessages(verrs))
}

func getAllErrorMessages(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fmt.Sprintf("'%s': %s", fe.Field(), getMessage(fe)))
	}
	return strings.Join(msgs, "; ")
}

func getMessage(fe validator.FieldError) string {
	kind := fe.Kind()
	if kind == reflect.Ptr {
		kind = fe.Type().Elem().Kind()
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "oneof":
		return "should have value in: " + fe.Param()
	case "uuid":
		return "should be a UUID"
	case "email":
		return "should be an email address"
	}

	if kind == reflect.String || kind == reflect.Slice {
		switch fe.Tag() {
		case "lte", "max":
			return "length should be less or equal than " + fe.Param()
		case "gte", "min":
			return "length should be greater or equal than " + fe.Param()
		}
		return "incorrect value passed"
	}

	switch fe.Tag() {
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}
	return "incorrect value passed"
}
