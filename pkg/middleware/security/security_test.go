package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Headers())
	r.GET("/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHeadersOnAPIRoutes(t *testing.T) {
	rec := serve("/books")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, defaultCSP, rec.Header().Get("Content-Security-Policy"))
}

func TestDocsGetRelaxedPolicy(t *testing.T) {
	rec := serve("/docs/index.html")
	assert.Equal(t, docsCSP, rec.Header().Get("Content-Security-Policy"))
}
