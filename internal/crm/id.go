package crm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("crm: id must be a string or a number")

// ID is an identifier that may arrive as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := CoerceID(b)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// CoerceID turns a raw JSON id (string or number) into its string form.
func CoerceID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrInvalidID
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return numberString(string(raw))
	default:
		return "", ErrInvalidID
	}
}

// numberString renders a JSON number without exponent or trailing ".0",
// so 42, 42.0 and 4.2e1 all key as "42".
func numberString(n string) (string, error) {
	if !strings.ContainsAny(n, ".eE") {
		return n, nil
	}
	r, ok := new(big.Rat).SetString(n)
	if !ok {
		return "", ErrInvalidID
	}
	if r.IsInt() {
		return r.Num().String(), nil
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
