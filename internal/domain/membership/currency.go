package membership

// Currency is the settlement currency of a payment claim
type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation of Currency
func (c Currency) String() string {
	return string(c)
}

// IsValid returns true if the currency is supported
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyVND, CurrencyUSD:
		return true
	}
	return false
}
