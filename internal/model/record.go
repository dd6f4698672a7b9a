package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Persisted field names of a Record.
const (
	FieldName  = "name"
	FieldStock = "stock"
	FieldCost  = "cost"
)

// ErrMissingField is returned when a persisted record lacks a required field.
var ErrMissingField = errors.New("record field is missing")

// Record is the persisted shape of an item. The identifier is the key
// under which the record is stored and is not repeated inside it.
type Record struct {
	Name  string
	Stock int
	Cost  float64
}

// Item returns the item stored under id.
func (r Record) Item(id string) Item {
	return Item{
		ID:    id,
		Name:  r.Name,
		Stock: r.Stock,
		Cost:  r.Cost,
	}
}

// MarshalJSON writes the record as {"name":...,"stock":...,"cost":...}.
func (r Record) MarshalJSON() ([]byte, error) {
	name, err := json.Marshal(r.Name)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FieldName, err)
	}

	stock, err := json.Marshal(r.Stock)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FieldStock, err)
	}

	cost, err := json.Marshal(r.Cost)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FieldCost, err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField(&buf, FieldName, name)
	buf.WriteByte(',')
	writeField(&buf, FieldStock, stock)
	buf.WriteByte(',')
	writeField(&buf, FieldCost, cost)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, value []byte) {
	buf.WriteByte('"')
	buf.WriteString(key)
	buf.WriteString(`":`)
	buf.Write(value)
}

// UnmarshalJSON reads a record object. All three fields are required;
// unknown fields (such as a redundant "item_id") are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("record is null: %w", ErrMissingField)
	}

	var rec Record
	if err := decodeField(fields, FieldName, &rec.Name); err != nil {
		return err
	}
	if err := decodeField(fields, FieldStock, &rec.Stock); err != nil {
		return err
	}
	if err := decodeField(fields, FieldCost, &rec.Cost); err != nil {
		return err
	}

	*r = rec
	return nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("%q: %w", key, ErrMissingField)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	return nil
}
