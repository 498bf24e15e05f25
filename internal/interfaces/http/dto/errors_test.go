package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	t.Run("maps domain codes to wire codes", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
		assert.Equal(t, ErrCodeConcurrencyConflict, NormalizeErrorCode("CONCURRENCY_CONFLICT"))
		assert.Equal(t, ErrCodeUnknownPlan, NormalizeErrorCode("UNKNOWN_PLAN"))
		assert.Equal(t, ErrCodeRenewalThrottled, NormalizeErrorCode("RENEWAL_THROTTLED"))
		assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_AMOUNT"))
	})

	t.Run("passes through wire codes unchanged", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	})

	t.Run("passes through unknown codes unchanged", func(t *testing.T) {
		assert.Equal(t, "SOMETHING_ODD", NormalizeErrorCode("SOMETHING_ODD"))
	})
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConcurrencyConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeRenewalThrottled))
	assert.Equal(t, http.StatusTooManyRequests, GetHTTPStatus(ErrCodeQuotaExceeded))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ErrCodeNoActiveMembership))

	t.Run("unknown codes fall back to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NOPE"))
	})
}
