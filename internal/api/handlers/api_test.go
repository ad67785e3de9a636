package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rubconv/internal/models"
	"rubconv/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIHandler_Convert(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(*testutil.Upstream)
		query         string
		wantStatus    int
		wantDisplay   string
		wantFailure   *models.ConversionFailure
		wantRateCalls int
	}{
		{
			name:          "Success",
			query:         "currency=USD&quantity=900",
			wantStatus:    http.StatusOK,
			wantDisplay:   "10.00",
			wantRateCalls: 1,
		},
		{
			name:          "Unknown currency passes upstream status through",
			query:         "currency=GBP&quantity=900",
			wantStatus:    http.StatusNotFound,
			wantFailure:   &models.ConversionFailure{ErrorCode: 404, ErrorMessage: "not found"},
			wantRateCalls: 1,
		},
		{
			name: "Malformed upstream body",
			setupFunc: func(up *testutil.Upstream) {
				up.HandleRate(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte(`{"name":`))
				})
			},
			query:      "currency=USD&quantity=900",
			wantStatus: http.StatusBadGateway,
			wantFailure: &models.ConversionFailure{
				ErrorCode:    http.StatusBadGateway,
				ErrorMessage: "the exchange-rate service returned an unreadable response",
			},
			wantRateCalls: 1,
		},
		{
			name: "Upstream status outside error range",
			setupFunc: func(up *testutil.Upstream) {
				up.HandleRate(func(w http.ResponseWriter, r *http.Request) {
					testutil.WriteJSON(w, http.StatusMultipleChoices, map[string]string{"error": "pick one"})
				})
			},
			query:         "currency=USD&quantity=900",
			wantStatus:    http.StatusBadGateway,
			wantFailure:   &models.ConversionFailure{ErrorCode: http.StatusMultipleChoices, ErrorMessage: "pick one"},
			wantRateCalls: 1,
		},
		{
			name:          "Non-numeric quantity",
			query:         "currency=USD&quantity=ten",
			wantStatus:    http.StatusBadRequest,
			wantRateCalls: 0,
		},
		{
			name:          "Missing quantity",
			query:         "currency=USD",
			wantStatus:    http.StatusBadRequest,
			wantRateCalls: 0,
		},
		{
			name:          "Invalid currency name",
			query:         "currency=US%0AD&quantity=1",
			wantStatus:    http.StatusBadRequest,
			wantRateCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.upstream.SetRates(map[string]float64{"USD": 90})
			if tt.setupFunc != nil {
				tt.setupFunc(env.upstream)
			}

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/v1/convert?"+tt.query, nil)
			env.router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantRateCalls, env.upstream.RateCalls())

			if tt.wantStatus == http.StatusOK {
				var result models.ConversionResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
				assert.Equal(t, tt.wantDisplay, result.Display)
				return
			}

			var failure models.ConversionFailure
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failure))
			if tt.wantFailure != nil {
				assert.Equal(t, *tt.wantFailure, failure)
			} else {
				assert.Equal(t, http.StatusBadRequest, failure.ErrorCode)
				assert.NotEmpty(t, failure.ErrorMessage)
			}
		})
	}
}

func TestAPIHandler_ListCurrencies(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.SetCurrencies([]models.CurrencyRecord{{Name: "USD"}, {Name: " CNY "}, {Name: ""}, {Name: "EUR"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/currencies", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var options []models.CurrencyOption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Equal(t, []models.CurrencyOption{{Name: "CNY"}, {Name: "EUR"}, {Name: "USD"}}, options)
}

func TestAPIHandler_ListCurrencies_Unavailable(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.HandleList(func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "maintenance"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/currencies", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "currency list unavailable", errResp.Error)
}

func TestAPIHandler_RefreshCurrencies(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.SetRates(map[string]float64{"USD": 90})
	require.NoError(t, env.lookup.Refresh(context.Background()))

	env.upstream.SetRates(map[string]float64{"USD": 90, "EUR": 100})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/currencies/refresh", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var options []models.CurrencyOption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Equal(t, []models.CurrencyOption{{Name: "EUR"}, {Name: "USD"}}, options)

	// a failed refresh keeps the previous list
	env.upstream.HandleList(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 2, env.lookup.Len())
}
