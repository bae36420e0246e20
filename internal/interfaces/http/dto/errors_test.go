package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"FORBIDDEN", http.StatusForbidden},
		{"SALE_LOCKED", http.StatusForbidden},
		{"INSUFFICIENT_STOCK", http.StatusConflict},
		{"LOCATION_LOCKED", http.StatusConflict},
		{"REQUEST_APPROVED_LOCKED", http.StatusConflict},
		{"INVALID_RELEASE", http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		// Validation-style codes default to 400
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"EMPLOYEE_REQUIRED", http.StatusBadRequest},
		{"SOMETHING_NEW", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	ok := NewSuccessResponse(map[string]string{"k": "v"})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	withMeta := NewSuccessResponseWithMeta(nil, 120, 50, 100, 20)
	assert.Equal(t, int64(120), withMeta.Meta.Total)
	assert.Equal(t, 20, withMeta.Meta.Returned)

	failed := NewErrorResponseWithRequestID("NOT_FOUND", "missing", "req-1")
	assert.False(t, failed.Success)
	assert.Equal(t, "req-1", failed.Error.RequestID)
}

func TestListRequestNormalize(t *testing.T) {
	var r ListRequest
	r.Normalize()
	assert.Equal(t, 50, r.Limit)

	r = ListRequest{Limit: 10, Offset: 30}
	r.Normalize()
	assert.Equal(t, 10, r.Limit)
	assert.Equal(t, 30, r.Offset)
}
