package apperror

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation chuyển lỗi của ozzo-validation sang ErrInvalidRequest với field-level messages.
// Nested struct (VD: signature.look) được flatten bằng dấu chấm.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return ErrInternal.Wrap(err)
		}
		return ErrInvalidRequest.WithMessage("%s", err.Error())
	}

	fields := make(map[string]string)
	flatten("", verrs, fields)
	return ErrInvalidRequest.WithFields(fields).Wrap(err)
}

func flatten(prefix string, verrs validation.Errors, out map[string]string) {
	for field, fieldErr := range verrs {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = fieldErr.Error()
	}
}

// NotBlank thay validation.Required cho field text: chuỗi chỉ có khoảng trắng cũng là rỗng
func NotBlank(message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, _ := validation.Indirect(value)
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return nil
		}
		return validation.NewError("validation_required", message)
	})
}

// NilOrNotBlank cho partial update: nil = không đổi, có gửi thì không được blank
func NilOrNotBlank(message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError("validation_nil_or_not_empty_required", message)
		}
		return nil
	})
}
