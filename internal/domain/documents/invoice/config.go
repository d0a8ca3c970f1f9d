package invoice

import "invenpos/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for invoices.
	// Invoices are the store's primary accounting documents, so numbers
	// must be strictly increasing without gaps: Strict only.
	NumeratorStrategy = numerator.StrategyStrict

	// NumberPrefix yields numbers like INV-000001.
	NumberPrefix   = "INV"
	NumberPadWidth = 6

	// CustomerPrefix yields auto-assigned customer ids like CUST-001.
	CustomerPrefix   = "CUST"
	CustomerPadWidth = 3

	// UnassignedCustomerID is the placeholder a client sends to request
	// auto-assignment.
	UnassignedCustomerID = "CUST-000"
)

// NumberConfig returns the numerator configuration for invoice numbers.
func NumberConfig() numerator.Config {
	return numerator.Config{Prefix: NumberPrefix, PadWidth: NumberPadWidth, ResetPeriod: "never"}
}

// CustomerConfig returns the numerator configuration for customer ids.
func CustomerConfig() numerator.Config {
	return numerator.Config{Prefix: CustomerPrefix, PadWidth: CustomerPadWidth, ResetPeriod: "never"}
}
