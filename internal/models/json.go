package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is the open key-value metadata payload stored as jsonb. Ledger rows
// use it for audit context (counterparty wallets, gateway event details).
type JSON map[string]interface{}

// NewJSON copies m into a JSON value, so callers can pass literal maps.
func NewJSON(m map[string]interface{}) JSON {
	if m == nil {
		return JSON{}
	}
	out := make(JSON, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a copy of j with every key from patch applied on top.
func (j JSON) Merge(patch JSON) JSON {
	out := make(JSON, len(j)+len(patch))
	for k, v := range j {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	case nil:
		*j = nil
		return nil
	}
	return nil
}

// MarshalJSON returns the JSON encoding
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]interface{}(j))
}

// UnmarshalJSON sets the JSON encoding
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("nil pointer")
	}
	return json.Unmarshal(data, (*map[string]interface{})(j))
}
