package valueobject

// Currency represents a currency code (ISO 4217)
type Currency string

// INR is the Indian Rupee, the home currency of the business
const INR Currency = "INR"

// DefaultCurrency is the currency documents and payments default to
const DefaultCurrency = INR
