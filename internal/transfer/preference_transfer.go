package transfer

import "encoding/json"

type PreferenceUpdate struct {
	Key         string          `json:"key" validate:"required"`
	Value       json.RawMessage `json:"value" validate:"required"`
	Description *string         `json:"description"`
}
