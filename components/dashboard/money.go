package dashboard

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Money is an exact amount that encodes as a bare number in JSON and YAML, so
// clients read the same numeric shape the upstream API serves.
type Money struct {
	decimal.Decimal
}

// NewMoney parses an amount and panics on malformed input. Meant for literals.
func NewMoney(value string) Money {
	return Money{Decimal: decimal.RequireFromString(value)}
}

// MoneyFromFloat converts a float amount.
func MoneyFromFloat(value float64) Money {
	return Money{Decimal: decimal.NewFromFloat(value)}
}

// MarshalJSON writes the amount unquoted.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// MarshalYAML writes the amount as a plain scalar.
func (m Money) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: m.Decimal.String()}, nil
}

// UnmarshalYAML accepts numeric scalars.
func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	return m.Decimal.UnmarshalText([]byte(node.Value))
}
