package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
	middleware "github.com/nimeshabuddhika/mock-error-api/pkg/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recoveryRouter(panicWith interface{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()))
	r.Use(middleware.TraceID())
	r.GET("/boom", func(c *gin.Context) {
		panic(panicWith)
	})
	return r
}

func doBoom(t *testing.T, panicWith interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/boom", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	recoveryRouter(panicWith).ServeHTTP(w, req)
	return w
}

// A thrown AppError keeps the standard envelope and its own status.
func TestRecovery_AppErrorKeepsEnvelope(t *testing.T) {
	appErr := pkg.AppError{Code: pkg.ErrGqlCode, Message: "custom error"}

	w := doBoom(t, appErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var out pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "GQL_ERROR", out.Code)
	assert.Equal(t, "custom error", out.Message)
}

// Any other error becomes a shapeless fault body with no machine code.
func TestRecovery_BareError(t *testing.T) {
	w := doBoom(t, errors.New("wires crossed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "wires crossed", out["error"])
	_, hasCode := out["code"]
	assert.False(t, hasCode)
}

func TestRecovery_NonErrorValue(t *testing.T) {
	w := doBoom(t, "total surprise")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "total surprise", out["error"])
}
