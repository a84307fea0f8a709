package database

import (
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/rpupo63/portfolio-site-backend/storage"
)

// List columns are stored as text on both engines. SQLite has no array type,
// so lists are JSON arrays. Postgres columns are TEXT[] and carry array
// literals, which the driver exchanges as plain strings.

// encodeStringList converts an ordered list into its column form. A nil list
// is stored as an empty one.
func encodeStringList(dialect storage.Dialect, list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	switch dialect {
	case storage.DialectSQLite:
		raw, err := json.Marshal(list)
		if err != nil {
			return "", fmt.Errorf("encode string list: %w", err)
		}
		return string(raw), nil
	case storage.DialectPostgres:
		value, err := pq.StringArray(list).Value()
		if err != nil {
			return "", fmt.Errorf("encode string list: %w", err)
		}
		literal, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("encode string list: unexpected array value %T", value)
		}
		return literal, nil
	default:
		return "", fmt.Errorf("encode string list: unsupported dialect %q", dialect)
	}
}

// decodeStringList is the inverse of encodeStringList. It never returns nil.
func decodeStringList(dialect storage.Dialect, raw string) ([]string, error) {
	switch dialect {
	case storage.DialectSQLite:
		list := []string{}
		if raw == "" {
			return list, nil
		}
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("decode string list %q: %w", raw, err)
		}
		if list == nil {
			list = []string{}
		}
		return list, nil
	case storage.DialectPostgres:
		var arr pq.StringArray
		if err := arr.Scan(raw); err != nil {
			return nil, fmt.Errorf("decode string list %q: %w", raw, err)
		}
		if arr == nil {
			return []string{}, nil
		}
		return []string(arr), nil
	default:
		return nil, fmt.Errorf("decode string list: unsupported dialect %q", dialect)
	}
}

// encodeOptionalStringList maps a nil list to NULL.
func encodeOptionalStringList(dialect storage.Dialect, list []string) (*string, error) {
	if list == nil {
		return nil, nil
	}
	raw, err := encodeStringList(dialect, list)
	if err != nil {
		return nil, err
	}
	return &raw, nil
}

// decodeOptionalStringList maps NULL to a nil list.
func decodeOptionalStringList(dialect storage.Dialect, raw *string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	return decodeStringList(dialect, *raw)
}
