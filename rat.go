package yamlls

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/go-json-experiment/json"
)

// Rat wraps a big.Rat to enable custom JSON marshaling/unmarshaling and to
// give multipleOf a float-safe remainder check (see evaluateMultipleOf in
// numeric.go) instead of comparing IEEE-754 floats directly.
type Rat struct {
	*big.Rat
}

// UnmarshalJSON implements the json.Unmarshaler interface for Rat.
func (r *Rat) UnmarshalJSON(data []byte) error {
	var tmp any
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	converted, err := convertToBigRat(tmp)
	if err != nil {
		return err
	}

	r.Rat = converted
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Rat.
func (r *Rat) MarshalJSON() ([]byte, error) {
	formattedValue := FormatRat(r)
	if strings.Contains(formattedValue, "/") {
		return json.Marshal(formattedValue)
	}
	return []byte(formattedValue), nil
}

// convertToBigRat converts various numeric/string representations to big.Rat.
func convertToBigRat(data any) (*big.Rat, error) {
	var str string
	switch v := data.(type) {
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		str = fmt.Sprint(v)
	case string:
		str = v
	default:
		return nil, ErrUnsupportedRatType
	}

	numRat := new(big.Rat)
	if _, ok := numRat.SetString(str); !ok {
		return nil, ErrRatConversion
	}
	return numRat, nil
}

// NewRat creates a new Rat from a given value, returning nil if the value
// cannot be interpreted as a rational number.
func NewRat(value any) *Rat {
	converted, err := convertToBigRat(value)
	if err != nil {
		return nil
	}
	return &Rat{converted}
}

// FormatRat formats a Rat as a decimal string, trimming trailing zeros.
func FormatRat(r *Rat) string {
	if r == nil {
		return "null"
	}

	if r.IsInt() {
		return r.Num().String()
	}

	dec := r.FloatString(10)

	trimmedDec := strings.TrimRight(dec, "0")
	trimmedDec = strings.TrimRight(trimmedDec, ".")

	if trimmedDec == "" {
		return "0"
	}

	return trimmedDec
}
