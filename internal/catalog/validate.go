package catalog

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lepinkainen/shelf/internal/errors"
)

var validate = validator.New()

// ValidateNewBook checks the fields the create form requires. The engine
// does not validate; callers run this before CreateBook.
func ValidateNewBook(b NewBook) error {
	return validateStruct(b)
}

// ValidateRating checks a rating before it is submitted.
func ValidateRating(r RatingRequest) error {
	return validateStruct(r)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stdErrors.As(err, &fieldErrs) {
		return err
	}

	out := &errors.ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, errors.FieldError{
			Field:   jsonName(fe.StructField()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func jsonName(field string) string {
	switch field {
	case "BookID":
		return "book_id"
	case "UserID":
		return "user_id"
	case "ImageURL":
		return "imageUrl"
	}
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
