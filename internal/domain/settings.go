package domain

import (
	"errors"
	"time"
)

// SettingFinancialYear is the key of the row holding the active financial
// year label ("YYYY-YYYY").
const SettingFinancialYear = "current_financial_year"

// ErrEmptySetting is returned when a setting is built without a key or value.
var ErrEmptySetting = errors.New("setting key and value cannot be empty")

// SystemSetting is one key/value configuration row. Keys are unique and
// writes are upserts.
type SystemSetting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSystemSetting builds and validates a setting row.
func NewSystemSetting(key, value string, description *string) (*SystemSetting, error) {
	if key == "" || value == "" {
		return nil, ErrEmptySetting
	}
	return &SystemSetting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}
