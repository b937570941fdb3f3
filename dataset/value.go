package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Value is one spreadsheet cell. The zero value is an empty cell.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
}

func Empty() Value {
	return Value{}
}

func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func Number(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// String renders the cell the way it is compared and printed: numbers in
// shortest round-trip form, empty cells as "".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric payload. Empty cells report false.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// MarshalJSON encodes empty cells as null, numbers as JSON numbers and text
// as JSON strings so the kind survives a round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode cell value: %w", err)
	}
	switch typed := raw.(type) {
	case nil:
		*v = Empty()
	case string:
		*v = Text(typed)
	case float64:
		*v = Number(typed)
	default:
		return fmt.Errorf("unsupported cell value %s", string(data))
	}
	return nil
}
