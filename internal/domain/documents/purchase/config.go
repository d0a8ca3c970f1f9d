package purchase

import "invenpos/pkg/numerator"

const (
	// NumeratorStrategy for purchase orders. Internal documents, so the
	// faster range-cached allocation is fine; restart gaps are acceptable.
	NumeratorStrategy = numerator.StrategyCached

	// NumberPrefix yields numbers like PO-000001.
	NumberPrefix   = "PO"
	NumberPadWidth = 6
)

// NumberConfig returns the numerator configuration for order numbers.
func NumberConfig() numerator.Config {
	return numerator.Config{Prefix: NumberPrefix, PadWidth: NumberPadWidth, ResetPeriod: "never"}
}
