package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	remedyapi "github.com/futig/remedy-companion/internal/api/remedy"
	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/formatter"
	"github.com/futig/remedy-companion/internal/pkg/validator"
	"github.com/futig/remedy-companion/internal/repository"
	"github.com/futig/remedy-companion/internal/usecase/session"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouter() http.Handler {
	store := repository.NewCacheStore[*session.Session](time.Hour, time.Hour, entity.ErrSessionNotFound)
	svc := session.NewService(store, nil, catalog.Default(), nil, formatter.NewFactory(), session.Config{})
	return SetupRouter(remedyapi.NewHandler(svc, validator.New(), nil), time.Minute, zap.NewNop())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/remedy-session/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDocsRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs/index.html", rec.Header().Get("Location"))
}
