package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/internal/handlers"
	"github.com/nimeshabuddhika/mock-error-api/internal/services"
	"github.com/nimeshabuddhika/mock-error-api/internal/views"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
	middleware "github.com/nimeshabuddhika/mock-error-api/pkg/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRouter builds the engine the way app.NewApp does, with the recovery
// and trace middleware the thrown outcomes depend on.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	r := gin.New()
	r.Use(middleware.Recovery(logger))

	api := r.Group("/api/v1")
	api.Use(middleware.TraceID())

	h := handlers.NewSimulateHandler(logger, services.NewCatalog(logger))
	h.RegisterRoutes(api)
	return r
}

func postSimulate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkg.ErrorResponse {
	t.Helper()
	var out pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSimulate_NotFound(t *testing.T) {
	w := postSimulate(t, `{"operation":"notFound"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))

	out := decodeError(t, w)
	assert.Equal(t, "NOT_FOUND", out.Code)
	assert.NotEmpty(t, out.Message)
}

func TestSimulate_GivenCode_DynamicStatus(t *testing.T) {
	w := postSimulate(t, `{"operation":"givenCode","code":503}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, w).Code)
}

func TestSimulate_GivenCode_ZeroTakesValidationBranch(t *testing.T) {
	w := postSimulate(t, `{"operation":"givenCode","code":0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_USER_INPUT", decodeError(t, w).Code)
}

func TestSimulate_MalformedJSON(t *testing.T) {
	w := postSimulate(t, `{"operation":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_USER_INPUT", decodeError(t, w).Code)
}

func TestSimulate_MissingOperation(t *testing.T) {
	w := postSimulate(t, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_USER_INPUT", decodeError(t, w).Code)
}

func TestSimulate_NetworkError_Status408(t *testing.T) {
	w := postSimulate(t, `{"operation":"networkError"}`)

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, w).Code)
}

func TestSimulate_RequestTimeout_DelaysThenFails(t *testing.T) {
	start := time.Now()
	w := postSimulate(t, `{"operation":"requestTimeout","time":30}`)

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, w).Code)
}

func TestSimulate_AntiPattern_MalformedBody(t *testing.T) {
	w := postSimulate(t, `{"operation":"antiPattern"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"errors":null`)

	var out struct {
		TraceID string                   `json:"traceId"`
		Data    views.AntiPatternPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.TraceID)
	assert.Nil(t, out.Data.Errors)
	assert.Equal(t, 404, out.Data.Body.Code)
	assert.Equal(t, "", out.Data.Body.Value)
}

// Thrown conformant error: the panic travels through the recovery middleware
// and still comes out as the standard envelope.
func TestSimulate_GqlError_RecoveredEnvelope(t *testing.T) {
	w := postSimulate(t, `{"operation":"gqlError"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "GQL_ERROR", decodeError(t, w).Code)
}

// Thrown non-conformant errors surface as a bare fault with no code field.
func TestSimulate_ThrownFaultsAreShapeless(t *testing.T) {
	for _, op := range []string{"other", "nonGqlError"} {
		t.Run(op, func(t *testing.T) {
			w := postSimulate(t, `{"operation":"`+op+`"}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var out map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.NotEmpty(t, out["error"])
			_, hasCode := out["code"]
			assert.False(t, hasCode)
		})
	}
}

func TestSimulate_UnknownOperation(t *testing.T) {
	w := postSimulate(t, `{"operation":"fooBar"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeError(t, w)
	assert.Equal(t, "BAD_USER_INPUT", out.Code)
	assert.Contains(t, out.Message, "fooBar")
}

func TestSimulate_GetQueryBinding(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/simulate?operation=givenCode&code=502", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, w).Code)
}

func TestSimulate_GetWithoutOperation(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/simulate", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_USER_INPUT", decodeError(t, w).Code)
}
