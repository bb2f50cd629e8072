package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(t *testing.T) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/test", nil)
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondWithJSON(w, testRequest(t), http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	r := testRequest(t)
	ctx := SetTraceID(r.Context())
	r = r.WithContext(ctx)

	w := httptest.NewRecorder()
	RespondWithError(w, r, http.StatusNotFound, "Card not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Card not found", resp.Error)
	assert.Equal(t, GetTraceID(ctx), resp.TraceID)
}

func TestRespondWithErrorWithoutTraceID(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondWithError(w, testRequest(t), http.StatusBadRequest, "Invalid request")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.TraceID)
	assert.NotContains(t, w.Body.String(), "trace_id", "omitempty should drop an empty trace ID")
}

func TestRespondWithErrorAndLogDoesNotLeakError(t *testing.T) {
	t.Parallel()

	internalErr := errors.New("pq: connection to postgresql://u:secretpw@db:5432 failed")

	w := httptest.NewRecorder()
	RespondWithErrorAndLog(w, testRequest(t), http.StatusInternalServerError,
		"An unexpected error occurred", internalErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.NotContains(t, w.Body.String(), "secretpw",
		"raw error details must never reach the client")
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"name":"go"}`))
	var p payload
	require.NoError(t, DecodeJSON(r, &p))
	assert.Equal(t, "go", p.Name)

	r = httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{not json`))
	assert.Error(t, DecodeJSON(r, &p))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	type payload struct {
		Email string `validate:"required,email"`
	}

	assert.NoError(t, ValidateRequest(payload{Email: "user@example.com"}))
	assert.Error(t, ValidateRequest(payload{Email: "not-an-email"}))

	assert.Error(t, ValidateRequest(selfValidating{fail: true}))
	assert.NoError(t, ValidateRequest(selfValidating{}))
}

// selfValidating exercises the Validate() interface branch.
type selfValidating struct {
	fail bool
}

func (s selfValidating) Validate() error {
	if s.fail {
		return errors.New("self validation failed")
	}
	return nil
}
