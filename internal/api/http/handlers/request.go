package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const (
	msgInvalidJSON  = "Invalid JSON format in request body"
	msgBodyRequired = "Request body is required"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody strictly decodes the JSON body into dst and runs struct validation.
// Empty bodies and empty objects are rejected, as are unknown fields.
func decodeBody(c *fiber.Ctx, dst any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return apperrors.NewValidationError(msgBodyRequired, nil)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return apperrors.NewValidationError(msgInvalidJSON, nil)
	}
	if len(fields) == 0 {
		return apperrors.NewValidationError(msgBodyRequired, nil)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return validateStruct(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid %s value", typeErr.Field), map[string]any{"field": typeErr.Field})
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field = strings.Trim(field, `"`)
		return apperrors.NewValidationError(fmt.Sprintf("Unknown field %q", field), map[string]any{"field": field})
	}
	if errors.Is(err, dto.ErrInvalidDate) {
		return apperrors.NewValidationError("Invalid date format", nil)
	}
	return apperrors.NewValidationError(msgInvalidJSON, nil)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	first := verrs[0]
	if first.Tag() == "email" {
		return apperrors.NewValidationError("Invalid email format", map[string]any{"field": first.Field()})
	}
	return apperrors.NewValidationError(fmt.Sprintf("Invalid %s value", first.Field()), map[string]any{"field": first.Field()})
}

// queryInt parses a query parameter, returning 0 when absent or not a number.
// The services treat 0 as "use the default".
func queryInt(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}
