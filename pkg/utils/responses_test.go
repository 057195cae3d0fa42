package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseJSONCarriesTraceID(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Trace-ID", "abc")

	ResponseConflict(rec, "booking already canceled")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, Response{Message: "booking already canceled", TraceID: "abc"}, resp)
}

func TestResponseJSONOmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()

	ResponseSuccess(rec, "success", nil)

	assert.JSONEq(t, `{"status":true,"message":"success"}`, rec.Body.String())
}
