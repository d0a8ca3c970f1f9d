package taxrate

import (
	"context"
	"testing"

	"invenpos/internal/core/types"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name       string
		percentage string
		subtotal   string
		want       string
	}{
		{"whole percent", "10", "200", "20"},
		{"rounds to cents", "7.5", "19.99", "1.5"},
		{"rounds half up", "8.25", "10.10", "0.83"},
		{"zero subtotal", "10", "0", "0"},
		{"negative subtotal carries no tax", "10", "-5", "0"},
		{"zero rate", "0", "100", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate := NewTaxRate("TAX-001", "VAT", types.MustMoney(tc.percentage))
			got := rate.Apply(types.MustMoney(tc.subtotal))
			if !got.Equal(types.MustMoney(tc.want)) {
				t.Errorf("Apply(%s) at %s%% = %s, want %s", tc.subtotal, tc.percentage, got, tc.want)
			}
		})
	}
}

func TestValidate_PercentageBounds(t *testing.T) {
	ctx := context.Background()

	rate := NewTaxRate("TAX-001", "VAT", types.MustMoney("101"))
	if err := rate.Validate(ctx); err == nil {
		t.Error("expected error for percentage above 100")
	}

	rate = NewTaxRate("TAX-002", "VAT", types.MustMoney("-1"))
	if err := rate.Validate(ctx); err == nil {
		t.Error("expected error for negative percentage")
	}

	rate = NewTaxRate("TAX-003", "VAT", types.MustMoney("8.25"))
	if err := rate.Validate(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
