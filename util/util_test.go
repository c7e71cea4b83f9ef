package util

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwise1/phishblock/util/tracing"
	"github.com/bwise1/phishblock/util/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		status string
		code   int
	}{
		{values.Success, http.StatusOK},
		{values.Created, http.StatusCreated},
		{values.Error, http.StatusInternalServerError},
		{values.SystemErr, http.StatusInternalServerError},
		{values.BadRequestBody, http.StatusBadRequest},
		{values.Unprocessable, http.StatusUnprocessableEntity},
		{values.NotAllowed, http.StatusForbidden},
		{values.Conflict, http.StatusConflict},
		{values.NotFound, http.StatusNotFound},
		{values.NotAuthorised, http.StatusUnauthorized},
		{values.TokenExpired, http.StatusUnauthorized},
		{values.Timeout, http.StatusGatewayTimeout},
		{"unknown", http.StatusOK},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.code, StatusCode(tc.status), tc.status)
	}
}

func TestDecodeJSONBody(t *testing.T) {
	tc := tracing.Context{RequestID: "req-1"}
	body := io.NopCloser(strings.NewReader(`{"url": "https://example.com"}`))

	var target struct {
		URL string `json:"url"`
	}
	err := DecodeJSONBody(&tc, body, &target)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target.URL)
}

func TestDecodeJSONBodyInvalid(t *testing.T) {
	tc := tracing.Context{RequestID: "req-1"}
	body := io.NopCloser(strings.NewReader(`{not json`))

	var target map[string]interface{}
	err := DecodeJSONBody(&tc, body, &target)
	assert.Error(t, err)
}

func TestGetWalletFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), "wallet_address", "0xabc1234567890123456789012345678901234567")

	address, err := GetWalletFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xabc1234567890123456789012345678901234567", address)
}

func TestGetWalletFromContextMissing(t *testing.T) {
	_, err := GetWalletFromContext(context.Background())
	assert.Error(t, err)
}
