package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves the whole package.
//
// RegisterTagNameFunc makes FieldError.Field() report the JSON name
// ("num_employees") instead of the Go name ("NumEmployees"), which is what
// API clients actually sent.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Nullable PATCH fields validate as the pointer they wrap.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(interface{ ValidationValue() any }).ValidationValue()
	}, model.Nullable[int]{}, model.Nullable[string]{})
	return v
}()

// decodeJSON reads exactly one JSON object from the body into dst and runs
// the struct's validate tags. Every failure is an apperror.ErrValidation.
//
// DECODING STEPS:
//  1. Cap the body at maxBodyBytes
//  2. Decode one value, refusing unknown keys
//  3. Require end of input after it
//  4. Run the validate tags
//
// DisallowUnknownFields rejects payloads carrying keys the struct doesn't
// declare, e.g. {"is_admin": true} on PATCH /users/{username}.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("", "request body must contain a single JSON object")
	}

	return validateStruct(dst)
}

func decodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("", "request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.ValidationFailed("", "request body is not valid JSON")
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return apperror.ValidationFailed("", "request body must be a JSON object")
	case errors.As(err, &typeErr):
		return apperror.ValidationFailed(typeErr.Field,
			fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
	case errors.As(err, &maxBytesErr):
		return apperror.ValidationFailed("", "request body is too large")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return apperror.ValidationFailed(field, fmt.Sprintf("%s is not an allowed field", field))
	}
	return apperror.ValidationFailed("", "request body is not valid JSON")
}

// validateStruct turns validator failures into a single message naming
// every offending field, e.g. "handle is required; logo_url must be a valid URL".
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperror.ValidationFailed(fieldErrs[0].Field(), strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email address"
	case "url":
		return fe.Field() + " must be a valid URL"
	}
	return fe.Field() + " is invalid"
}

// =========================================================================
// QUERY STRING HELPERS
// =========================================================================
//
// A missing or empty parameter means "no constraint" and comes back nil.
// A present but malformed one is a 400, never silently ignored.

func queryString(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := queryString(r, name)
	if raw == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil || n < 0 || n > math.MaxInt32 {
		return nil, apperror.ValidationFailed(name, name+" must be a non-negative integer")
	}
	return &n, nil
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := queryString(r, name)
	if raw == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, apperror.ValidationFailed(name, name+" must be a non-negative number")
	}
	return &f, nil
}
