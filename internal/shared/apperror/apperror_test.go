package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	base := Conflict("DUPLICATE_SLUG", "slug already exists")
	wrapped := fmt.Errorf("create celebrity: %w", base.Wrap(errors.New("23505")))

	assert.True(t, errors.Is(wrapped, base))
	assert.False(t, errors.Is(wrapped, NotFound("CELEBRITY_NOT_FOUND", "x")))
}

func TestAppError_CopiesDoNotMutateSentinel(t *testing.T) {
	base := Validation("INVALID_REQUEST", "invalid")
	withFields := base.WithFields(map[string]string{"name": "required"})
	withMsg := base.WithMessage("field %s is bad", "title")

	assert.Nil(t, base.Fields)
	assert.Equal(t, "invalid", base.Message)
	assert.Equal(t, "required", withFields.Fields["name"])
	assert.Equal(t, "field title is bad", withMsg.Message)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"app error", Referential("UNKNOWN_CELEBRITY", "x"), KindReferential},
		{"wrapped app error", fmt.Errorf("x: %w", ErrUploadFailed), KindAssetUpload},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTransient},
		{"canceled", context.Canceled, KindTransient},
		{"unknown", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestAs(t *testing.T) {
	appErr, ok := As(fmt.Errorf("outer: %w", ErrForbidden))
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestRetryable(t *testing.T) {
	assert.True(t, ErrUploadFailed.Retryable())
	assert.True(t, ErrTransient.Retryable())
	assert.False(t, ErrInvalidRequest.Retryable())
}

type signature struct {
	Look string `json:"look"`
}

func (s signature) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Look, validation.Length(0, 5)),
	)
}

type celebrityReq struct {
	Name      string    `json:"name"`
	Signature signature `json:"signature"`
}

func TestFromValidation(t *testing.T) {
	req := celebrityReq{Signature: signature{Look: "too long look"}}
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Signature),
	)
	require.Error(t, err)

	converted := FromValidation(err)
	appErr, ok := As(converted)
	require.True(t, ok)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "cannot be blank", appErr.Fields["name"])
	assert.Contains(t, appErr.Fields, "signature.look")

	assert.NoError(t, FromValidation(nil))
	assert.True(t, IsValidation(FromValidation(errors.New("bad json"))))
}

func TestNotBlank(t *testing.T) {
	rule := NotBlank("name is required")
	name := "Zendaya"
	blank := " \t\n"

	assert.NoError(t, validation.Validate("Zendaya", rule))
	assert.NoError(t, validation.Validate(&name, rule))
	assert.EqualError(t, validation.Validate("", rule), "name is required")
	assert.EqualError(t, validation.Validate("   ", rule), "name is required")
	assert.EqualError(t, validation.Validate(&blank, rule), "name is required")
	assert.EqualError(t, validation.Validate((*string)(nil), rule), "name is required")
}

func TestNilOrNotBlank(t *testing.T) {
	rule := NilOrNotBlank("title cannot be empty")
	title := "Look"
	empty := ""
	blank := "\t "

	assert.NoError(t, validation.Validate((*string)(nil), rule))
	assert.NoError(t, validation.Validate(&title, rule))
	assert.EqualError(t, validation.Validate(&empty, rule), "title cannot be empty")
	assert.EqualError(t, validation.Validate(&blank, rule), "title cannot be empty")
}
