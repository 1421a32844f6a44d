package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"wasmbench/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"missing input", fmt.Errorf("%w: results.csv", core.ErrInputNotFound), CodeNotFound},
		{"missing column", core.NewMissingColumnError("lto"), CodeMissingColumn},
		{"unknown level", core.NewUnknownLevelError("lto", "Slim", 3), CodeSchemaMismatch},
		{"not numeric", core.NewNotNumericError("build_time", "fast", 2), CodeSchemaMismatch},
		{"rank deficient", core.NewRankDeficientError("n <= p"), CodeRankDeficient},
		{"missing level", fmt.Errorf("%w: \"Fat\"", core.ErrMissingLevel), CodeModelError},
		{"invalid formula", core.ErrInvalidFormula, CodeModelError},
		{"unsupported type", core.ErrUnsupportedType, CodeInvalidInput},
		{"empty dataset", core.ErrEmptyDataset, CodeInvalidInput},
		{"unrelated", stderrors.New("disk on fire"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.err, "context")
			assert.Equal(t, tt.code, GetCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWrapInheritsCode(t *testing.T) {
	inner := RenderError("coefficient plot", stderrors.New("no room"))
	err := Wrapf(inner, "page %d", 7)

	assert.Equal(t, CodeRenderError, GetCode(err))
	assert.Equal(t, "page 7: coefficient plot: no room", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(InvalidInput("bad flag")))
	assert.True(t, IsAppError(fmt.Errorf("outer: %w", NotFound("analysis file plan.yaml"))))
	assert.False(t, IsAppError(stderrors.New("plain")))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeNotFound, NotFound("analysis file plan.yaml").Code)
	assert.Equal(t, "analysis file plan.yaml not found", NotFound("analysis file plan.yaml").Error())
	assert.Equal(t, CodeInvalidInput, InvalidInput("bad flag").Code)
	assert.Equal(t, CodeConfigInvalid, WithCode(CodeConfigInvalid, stderrors.New("x")).(*AppError).Code)
}
