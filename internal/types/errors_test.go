package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgeError_Error(t *testing.T) {
	err := NewError(RFP_NO_ITEMS, "no usable line items")
	assert.Equal(t, "[RFP_NO_ITEMS] no usable line items", err.Error())
}

func TestForgeError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := WrapError(CONFIG_PARSE_FAILED, "failed to parse config", cause)
	assert.Equal(t, "[CONFIG_PARSE_FAILED] failed to parse config: unexpected end of JSON input", err.Error())
}

func TestForgeError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(PIPELINE_STAGE_FAILED, "stage failed", cause)
	require.ErrorIs(t, err, cause)
}

func TestForgeError_IsMatchesByCode(t *testing.T) {
	err := WrapError(RFP_NO_ITEMS, "extracted record has no items", errors.New("boom"))
	assert.True(t, errors.Is(err, NewError(RFP_NO_ITEMS, "")))
	assert.False(t, errors.Is(err, NewError(RFP_INVALID, "")))
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(PIPELINE_STAGE_FAILED, "transient")
	assert.True(t, err.Retryable)
	assert.False(t, NewError(PIPELINE_STAGE_FAILED, "permanent").Retryable)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewError(RFP_INVALID, "bad record"))
	assert.Equal(t, RFP_INVALID, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestID_Validate(t *testing.T) {
	assert.NoError(t, ID("RFP-2024-017").Validate())
	assert.Error(t, ID("").Validate())
	assert.Error(t, ID(" RFP-1 ").Validate())
}

func TestNewUploadID_Unique(t *testing.T) {
	a := NewUploadID()
	b := NewUploadID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a.String(), "RFP-UPLOAD-")
}
