package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rubconv/internal/models"

	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		listStatus int
		wantStatus int
		wantCount  int
		wantErr    bool
	}{
		{
			name:       "Success",
			listStatus: http.StatusOK,
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "Error_CatalogEmpty",
			listStatus: http.StatusInternalServerError,
			wantStatus: http.StatusServiceUnavailable,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.upstream.SetRates(map[string]float64{"USD": 90, "EUR": 100})
			if tt.listStatus != http.StatusOK {
				env.upstream.HandleList(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.listStatus)
				})
			}
			_ = env.lookup.Refresh(context.Background())

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/v1/health", nil)
			env.router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)

			var resp models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tt.wantCount, resp.Currencies)
			require.False(t, resp.Time.IsZero())

			if tt.wantErr {
				require.Equal(t, "degraded", resp.Status)
				require.NotEmpty(t, resp.CatalogError)
				require.Nil(t, resp.CatalogRefreshedAt)
			} else {
				require.Equal(t, "healthy", resp.Status)
				require.NotNil(t, resp.CatalogRefreshedAt)
				require.Empty(t, resp.CatalogError)
			}
		})
	}
}
