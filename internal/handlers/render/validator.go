package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func configureValidator(validate *validator.Validate) {
	validate.RegisterTagNameFunc(useJSONTagNames)
	_ = validate.RegisterValidation("uuids", validateUUIDs)
}

// Return on 'TagName' json tag instead of struct name
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// Every element of []uuid.UUID is set
func validateUUIDs(fl validator.FieldLevel) bool {
	ids, ok := fl.Field().Interface().([]uuid.UUID)
	if !ok {
		return false
	}

	for _, id := range ids {
		if id == uuid.Nil {
			return false
		}
	}
	return true
}
