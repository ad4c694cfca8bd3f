package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
)

const (
	ValidationErrorType = "validation_failed"
	DecodingErrorType   = "decoding_failed"
	ServiceErrorType    = "service_error"
)

var validate = validator.New()

func init() {
	configureValidator(validate)
}

type Struct any

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type appError struct {
	status  int
	message string
}

// How well known errors are shown to clients
var appErrors = map[apperrors.Kind]appError{
	apperrors.KindAccountAlreadyExists:   {http.StatusConflict, "Account already exists"},
	apperrors.KindAccountNotFound:        {http.StatusNotFound, "Account not found"},
	apperrors.KindRewardNotFound:         {http.StatusNotFound, "Reward not found"},
	apperrors.KindRedemptionNotFound:     {http.StatusNotFound, "Redemption not found"},
	apperrors.KindInvalidStateTransition: {http.StatusConflict, "Redemption is not pending"},
	apperrors.KindInvalidBatchAction:     {http.StatusBadRequest, "Action must be approve or deny"},
	apperrors.KindInsufficientBalance:    {http.StatusPaymentRequired, "Insufficient balance"},
	apperrors.KindInvalidAmount:          {http.StatusUnprocessableEntity, "Amount is not positive or out of range"},
	apperrors.KindUnauthorized:           {http.StatusUnauthorized, "Unauthorized"},
	apperrors.KindForbidden:              {http.StatusForbidden, "Forbidden"},
}

func JSON(w http.ResponseWriter, data any) {
	JSONWithStatus(w, data, http.StatusOK)
}

// Render ServiceError
func ServiceError(w http.ResponseWriter, error string, code int) {
	response := ErrorResponse{
		Error:   ServiceErrorType,
		Message: error,
	}

	JSONWithStatus(w, response, code)
}

// Render error returned by service layer
// Kind of the error is used as error type, unknown errors are rendered as internal
func AppError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)

	known, ok := appErrors[kind]
	if !ok {
		known = appError{http.StatusInternalServerError, "Internal server error"}
	}

	response := ErrorResponse{
		Error:   string(kind),
		Message: known.message,
	}

	JSONWithStatus(w, response, known.status)
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		Error:   DecodingErrorType,
		Message: "",
	}

	// Try to provide more specific error message based on error type
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		response.Message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	default:
		response.Message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	JSONWithStatus(w, response, http.StatusBadRequest)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Error:   ValidationErrorType,
		Message: "Request validation failed",
		Fields:  make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required", "required_without":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "oneof":
			message = fmt.Sprintf("Value must be one of: %s", fieldError.Param())
		case "email":
			message = "Value must be an email"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	JSONWithStatus(w, response, http.StatusBadRequest)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// JSONWithStatus sends data as json and enforces status code
func JSONWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
