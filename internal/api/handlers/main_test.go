package handlers_test

import (
	"os"
	"testing"

	"rubconv/internal/api/handlers"
	"rubconv/internal/catalog"
	"rubconv/internal/converter"
	"rubconv/internal/rates"
	"rubconv/internal/testutil"
	"rubconv/internal/validation"
	"rubconv/internal/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Initialize()
	os.Exit(m.Run())
}

// testEnv wires the handlers to a fake upstream
type testEnv struct {
	upstream *testutil.Upstream
	lookup   *catalog.Lookup
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	up := testutil.NewUpstream(t)
	client := rates.NewClient(up.Config(), nil, nil)
	lookup := catalog.NewLookup(client, nil)
	conv := converter.NewService(client, nil)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(sessions.Sessions("rubconv_test", cookie.NewStore([]byte("test_session_secret"))))

	form := handlers.NewFormHandler(lookup, conv, nil)
	router.GET("/", form.Show)
	router.POST("/", form.Submit)

	api := handlers.NewAPIHandler(lookup, conv, nil)
	router.GET("/api/v1/currencies", api.ListCurrencies)
	router.GET("/api/v1/convert", api.Convert)
	router.POST("/api/v1/currencies/refresh", api.RefreshCurrencies)

	health := handlers.NewHealthHandler(lookup)
	router.GET("/api/v1/health", health.Health)

	return &testEnv{upstream: up, lookup: lookup, router: router}
}
