// Package catalog keeps the list of selectable currencies
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rubconv/internal/models"
	"rubconv/internal/validation"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Lister fetches the raw currency records from upstream
type Lister interface {
	ListCurrencies(ctx context.Context) ([]models.CurrencyRecord, error)
}

// Lookup holds the sorted, de-duplicated currency options.
// It starts empty and only changes on Refresh.
type Lookup struct {
	source Lister
	logger *zap.Logger

	mu          sync.RWMutex
	options     []models.CurrencyOption
	index       map[string]struct{}
	loaded      bool
	refreshedAt time.Time
	lastErr     error

	// refreshMu serializes upstream fetches
	refreshMu sync.Mutex
}

// NewLookup creates an empty lookup backed by source
func NewLookup(source Lister, logger *zap.Logger) *Lookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lookup{
		source: source,
		logger: logger,
		index:  make(map[string]struct{}),
	}
}

// Refresh replaces the options with a fresh upstream list.
// On failure the previous options are kept and the error is returned.
func (l *Lookup) Refresh(ctx context.Context) error {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	records, err := l.source.ListCurrencies(ctx)
	if err != nil {
		l.mu.Lock()
		l.lastErr = err
		kept := len(l.options)
		l.mu.Unlock()

		l.logger.Warn("Currency list refresh failed, keeping previous list",
			zap.Int("kept", kept),
			zap.Error(err),
		)
		return fmt.Errorf("failed to refresh currency list: %w", err)
	}

	options := buildOptions(records)
	index := make(map[string]struct{}, len(options))
	for _, o := range options {
		index[o.Name] = struct{}{}
	}

	l.mu.Lock()
	l.options = options
	l.index = index
	l.loaded = true
	l.refreshedAt = time.Now().UTC()
	l.lastErr = nil
	l.mu.Unlock()

	l.logger.Info("Currency list refreshed",
		zap.Int("received", len(records)),
		zap.Int("options", len(options)),
	)
	return nil
}

// EnsureLoaded refreshes only if no refresh has succeeded yet
func (l *Lookup) EnsureLoaded(ctx context.Context) error {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return nil
	}
	return l.Refresh(ctx)
}

// Options returns a copy of the current options in ascending name order
func (l *Lookup) Options() []models.CurrencyOption {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.CurrencyOption(nil), l.options...)
}

// Contains reports whether name is one of the current options
func (l *Lookup) Contains(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.index[name]
	return ok
}

// Len returns the number of current options
func (l *Lookup) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.options)
}

// RefreshedAt returns the time of the last successful refresh, zero if none
func (l *Lookup) RefreshedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refreshedAt
}

// LastError returns the error of the last refresh, nil if it succeeded
func (l *Lookup) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// StartScheduler refreshes the lookup on a cron schedule until ctx is done
func (l *Lookup) StartScheduler(ctx context.Context, schedule string) error {
	// Create a new cron scheduler with seconds disabled
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	_, err := c.AddFunc(schedule, func() {
		l.logger.Debug("Running scheduled currency list refresh")
		if err := l.Refresh(ctx); err != nil {
			l.logger.Error("Scheduled currency list refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule currency list refresh %q: %w", schedule, err)
	}

	c.Start()
	l.logger.Info("Currency list scheduler started", zap.String("schedule", schedule))

	<-ctx.Done()
	l.logger.Info("Stopping currency list scheduler")
	<-c.Stop().Done()

	return nil
}

// buildOptions trims names, drops unusable names and duplicates, and sorts ascending.
// Every option it keeps passes the form's currency validation.
func buildOptions(records []models.CurrencyRecord) []models.CurrencyOption {
	seen := make(map[string]struct{}, len(records))
	options := make([]models.CurrencyOption, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if !validation.CurrencyName(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		options = append(options, models.CurrencyOption{Name: name})
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Name < options[j].Name
	})
	return options
}
