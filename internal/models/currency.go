package models

// CurrencyOption is one selectable currency; its name is both value and label
type CurrencyOption struct {
	Name string `json:"name" example:"USD"`
}

// CurrencyRecord is one entry of the upstream currency list
type CurrencyRecord struct {
	Name          string   `json:"name"`
	ExchangeToRUB *float64 `json:"exchange_to_rub,omitempty"`
	UpdateTime    string   `json:"update_time,omitempty"`
}
