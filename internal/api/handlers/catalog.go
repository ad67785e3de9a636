package handlers

import (
	"context"
	"time"

	"rubconv/internal/models"
)

// CurrencyCatalog is the refreshable list of selectable currencies
type CurrencyCatalog interface {
	Refresh(ctx context.Context) error
	EnsureLoaded(ctx context.Context) error
	Options() []models.CurrencyOption
	Contains(name string) bool
	Len() int
	RefreshedAt() time.Time
	LastError() error
}

// Converter performs a single ruble conversion
type Converter interface {
	Convert(ctx context.Context, req models.ConversionRequest) (models.ConversionResult, error)
}
