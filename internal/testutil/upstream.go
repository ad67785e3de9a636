// Package testutil provides utilities for testing
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rubconv/internal/config"
	"rubconv/internal/models"
)

// Upstream is a scripted fake of the exchange-rate service.
// It serves /currency/all and /currency/latest and counts calls to each.
type Upstream struct {
	Server *httptest.Server

	mu         sync.Mutex
	currencies []models.CurrencyRecord
	rates      map[string]float64
	listFunc   http.HandlerFunc
	rateFunc   http.HandlerFunc
	listCalls  int
	rateCalls  int
}

// NewUpstream starts a fake upstream that is closed when the test ends
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()

	u := &Upstream{rates: make(map[string]float64)}
	mux := http.NewServeMux()
	mux.HandleFunc("/currency/all", u.serveList)
	mux.HandleFunc("/currency/latest", u.serveRate)
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Server.Close)
	return u
}

// SetRates replaces the known rates; the currency list follows the map keys
func (u *Upstream) SetRates(rates map[string]float64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.rates = make(map[string]float64, len(rates))
	u.currencies = u.currencies[:0]
	for name, rate := range rates {
		u.rates[name] = rate
		u.currencies = append(u.currencies, models.CurrencyRecord{Name: name, ExchangeToRUB: Float64(rate)})
	}
}

// SetCurrencies overrides the list body, e.g. to include duplicates
func (u *Upstream) SetCurrencies(records []models.CurrencyRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.currencies = append([]models.CurrencyRecord(nil), records...)
}

// HandleList replaces the /currency/all handler
func (u *Upstream) HandleList(fn http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listFunc = fn
}

// HandleRate replaces the /currency/latest handler
func (u *Upstream) HandleRate(fn http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rateFunc = fn
}

// ListCalls returns how many times the currency list was requested
func (u *Upstream) ListCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.listCalls
}

// RateCalls returns how many times a rate was requested
func (u *Upstream) RateCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rateCalls
}

// Config returns upstream settings pointing at the fake
func (u *Upstream) Config() config.UpstreamConfig {
	return config.UpstreamConfig{
		CurrencyListURL: u.Server.URL + "/currency/all",
		RateURL:         u.Server.URL + "/currency/latest",
		Timeout:         2 * time.Second,
	}
}

func (u *Upstream) serveList(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.listCalls++
	fn := u.listFunc
	records := append([]models.CurrencyRecord(nil), u.currencies...)
	u.mu.Unlock()

	if fn != nil {
		fn(w, r)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (u *Upstream) serveRate(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.rateCalls++
	fn := u.rateFunc
	name := r.URL.Query().Get("currency")
	rate, ok := u.rates[name]
	u.mu.Unlock()

	if fn != nil {
		fn(w, r)
		return
	}
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":            name,
		"exchange_to_rub": rate,
		"update_time":     "2024-03-20T13:00:00Z",
	})
}

// WriteJSON writes v as a JSON body with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
