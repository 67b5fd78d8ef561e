package utils

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/itchan-dev/scoula/shared/errors"
	"github.com/itchan-dev/scoula/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	code := errors.StatusCode(err)
	if code >= http.StatusInternalServerError {
		// internals are logged, not shown
		logger.Log.Error("request failed", "error", err)
		http.Error(w, http.StatusText(code), code)
		return
	}
	http.Error(w, err.Error(), code)
}

// ParseNo parses a positive numeric identifier taken from a form value, query or url param.
func ParseNo(name, raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.BadRequest("Invalid %s: %q", name, raw)
	}
	return n, nil
}

// Validate runs the struct tags of v. The returned error is a 400 listing the failed fields.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.BadRequest("Invalid form")
	}
	fields := FieldErrors(verrs)
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fields[fe.Field()])
	}
	return errors.BadRequest("%s", strings.Join(msgs, "; "))
}

// ValidateFields runs the struct tags of v and returns the message of every failed
// field keyed by field name, nil when v is valid.
func ValidateFields(v any) map[string]string {
	return FieldErrors(validate.Struct(v))
}

// FieldErrors maps field names to a human readable message for each failed validation.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fmt.Sprintf("%s is required", name)
		case "max":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("%s is invalid", name)
		}
	}
	return out
}
