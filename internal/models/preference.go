package models

import (
	"encoding/json"
	"time"
)

// UserPreference is a key to structured-value mapping used for
// arbitrary dashboard settings. Keys are unique.
type UserPreference struct {
	ID          int64           `db:"id" json:"id"`
	Key         string          `db:"pref_key" json:"key"`
	Value       json.RawMessage `db:"pref_value" json:"value"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
