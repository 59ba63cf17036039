package dex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// rawRecord is one upstream JSON object. The upstream schemas are not
// fully stable, so every logical field is read through an ordered list of
// candidate keys instead of a single fixed name.
type rawRecord map[string]interface{}

// text returns the first present, non-empty candidate rendered as a
// string. Missing fields yield "".
func (r rawRecord) text(keys ...string) string {
	for _, key := range keys {
		value, ok := r[key]
		if !ok || value == nil {
			continue
		}
		switch typed := value.(type) {
		case string:
			if typed != "" {
				return typed
			}
		case json.Number:
			return typed.String()
		case float64:
			return strconv.FormatFloat(typed, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(typed)
		}
	}
	return ""
}

// textOr is text with a default for absent values.
func (r rawRecord) textOr(fallback string, keys ...string) string {
	if value := r.text(keys...); value != "" {
		return value
	}
	return fallback
}

// object returns the first candidate that is a nested object.
func (r rawRecord) object(keys ...string) rawRecord {
	for _, key := range keys {
		if nested, ok := r[key].(map[string]interface{}); ok {
			return rawRecord(nested)
		}
	}
	return nil
}

// uint8Or parses the first present candidate as a small unsigned integer.
func (r rawRecord) uint8Or(fallback uint8, keys ...string) uint8 {
	value := r.text(keys...)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return fallback
	}
	return uint8(parsed)
}

// decodeRecords parses a JSON payload that is either a bare array of
// records or an object wrapping the array under one of the given keys.
// json.Number keeps on-chain magnitudes exact.
func decodeRecords(data []byte, wrapperKeys ...string) ([]rawRecord, error) {
	var payload interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	list, ok := payload.([]interface{})
	if !ok {
		wrapper, isObject := payload.(map[string]interface{})
		if !isObject {
			return nil, fmt.Errorf("payload is neither array nor object")
		}
		for _, key := range wrapperKeys {
			if nested, found := wrapper[key].([]interface{}); found {
				list = nested
				break
			}
		}
		if list == nil {
			return nil, fmt.Errorf("payload has none of the expected list keys %v", wrapperKeys)
		}
	}

	records := make([]rawRecord, 0, len(list))
	for _, item := range list {
		if record, ok := item.(map[string]interface{}); ok {
			records = append(records, rawRecord(record))
		}
	}
	return records, nil
}
