package model

import "github.com/shopspring/decimal"

// Money is an exact decimal amount. Bounty payouts are stored and summed
// with shopspring/decimal so that 0.1 + 0.2 stays 0.3.
//
// It embeds decimal.Decimal to inherit arithmetic, database/sql scanning
// (Scan/Value store the amount as TEXT) and JSON decoding, which accepts
// both 250.00 and "250.00". Encoding is overridden to emit a bare JSON
// number so API consumers don't have to parse strings.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// ParseMoney parses a decimal string such as "250.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}
