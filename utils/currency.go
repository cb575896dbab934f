package utils

import "github.com/shopspring/decimal"

// Money is the display shape of an amount in a branch's currency.
type Money struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Symbol    string  `json:"symbol"`
	Formatted string  `json:"formatted"`
}

// FormatMoney renders amount with two decimals after the currency symbol.
// Example: ("₹", 240) -> "₹240.00"
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

func NewMoney(currency, symbol string, amount decimal.Decimal) Money {
	return Money{
		Amount:    amount.InexactFloat64(),
		Currency:  currency,
		Symbol:    symbol,
		Formatted: FormatMoney(symbol, amount),
	}
}
