package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgorski/brief-analyzer/internal/analysis"
)

func TestRespondAnalysisErrorStatusMapping(t *testing.T) {
	cases := []struct {
		kind   analysis.Kind
		status int
	}{
		{analysis.KindEmptyInput, 422},
		{analysis.KindUnknownModel, 422},
		{analysis.KindMissingCredential, 503},
		{analysis.KindGatewayInitFailure, 503},
		{analysis.KindModelInvocationFailure, 502},
		{analysis.KindPersistenceFailure, 500},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondAnalysisError(rec, &analysis.Error{Kind: tc.kind, Message: "boom"})

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"error":"boom"`)
			assert.Contains(t, rec.Body.String(), string(tc.kind))
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"brief":"x","extra":1}`))

	var dst analyzeRequest
	err := decodeJSON(req, &dst)
	require.Error(t, err)
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"brief":`))

	var dst analyzeRequest
	require.Error(t, decodeJSON(req, &dst))
}
