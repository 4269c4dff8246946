package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB wraps a value stored in a jsonb column. It implements sql.Scanner and
// driver.Valuer.
type JSONB[T any] struct {
	V T
}

// Scan implements sql.Scanner
func (j *JSONB[T]) Scan(src interface{}) error {
	if j == nil {
		return fmt.Errorf("postgres: Scan on nil *JSONB")
	}
	var zero T
	switch v := src.(type) {
	case nil:
		j.V = zero
		return nil
	case []byte:
		return json.Unmarshal(v, &j.V)
	case string:
		return json.Unmarshal([]byte(v), &j.V)
	default:
		return fmt.Errorf("postgres: cannot scan type %T into JSONB", src)
	}
}

// Value implements driver.Valuer
func (j JSONB[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// StringSlice is a []string stored as a jsonb array. Nil is written as [].
type StringSlice []string

// Scan implements sql.Scanner
func (s *StringSlice) Scan(src interface{}) error {
	if s == nil {
		return fmt.Errorf("postgres: Scan on nil *StringSlice")
	}
	var j JSONB[[]string]
	if err := j.Scan(src); err != nil {
		return err
	}
	if j.V == nil {
		j.V = []string{}
	}
	*s = j.V
	return nil
}

// Value implements driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return JSONB[[]string]{V: []string(s)}.Value()
}
