// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/animerec/internal/models"
)

// CodeValidation is the API error code for rejected request bodies.
const CodeValidation = "VALIDATION_ERROR"

// maxItemIDLength bounds catalog IDs accepted from clients.
const maxItemIDLength = 128

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one rejected field, named by its json tag.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects every FieldError of one request body.
type RequestValidationError struct {
	Fields []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError is the code, message and details triple written in the
// error envelope.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError shapes the failure for the response envelope. A single field
// is reported flat; several are listed under details.fields.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.Fields) {
	case 0:
		return &APIError{Code: CodeValidation, Message: "Validation failed"}
	case 1:
		f := ve.Fields[0]
		return &APIError{
			Code:    CodeValidation,
			Message: f.Message,
			Details: map[string]interface{}{"field": f.Field, "tag": f.Tag, "value": f.Value},
		}
	}

	fields := make([]map[string]interface{}, 0, len(ve.Fields))
	msgs := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, map[string]interface{}{"field": f.Field, "tag": f.Tag, "message": f.Message})
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return &APIError{
		Code:    CodeValidation,
		Message: strings.Join(msgs, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator with the item_id and
// interaction_type tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		mustRegister(v, "item_id", validItemID)
		mustRegister(v, "interaction_type", validInteractionType)
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func validInteractionType(fl validator.FieldLevel) bool {
	return models.InteractionType(fl.Field().String()).Valid()
}

// validItemID rejects empty or oversized IDs and any whitespace or
// control character.
func validItemID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" || len(id) > maxItemIDLength {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool { return r <= ' ' || r == 0x7f })
}

// ValidateStruct runs the shared validator over s and returns nil when
// every rule passes.
//
//	if verr := ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	}
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &RequestValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		})
	}
	return out
}

var interactionTypeList = func() string {
	names := make([]string, len(models.InteractionTypes))
	for i, t := range models.InteractionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}()

// describe renders a client-facing message for one failed rule.
func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "item_id":
		return field + " must be a non-empty identifier without whitespace"
	case "interaction_type":
		return field + " must be one of: " + interactionTypeList
	case "oneof":
		return field + " must be one of: " + param
	case "min":
		return field + " must be at least " + param + unit
	case "max":
		return field + " must be at most " + param + unit
	case "gte":
		return field + " must be greater than or equal to " + param
	case "lte":
		return field + " must be less than or equal to " + param
	case "gt":
		return field + " must be greater than " + param
	case "lt":
		return field + " must be less than " + param
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
