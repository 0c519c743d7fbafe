package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjelbo/zohoctl/zoho"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{"simple comparison", `total > 100`, false},
		{"boolean combination", `status == "overdue" and total > 100`, false},
		{"helper function", `contains(customer_name, "acme")`, false},
		{"date helper", `parseDate(date) > monthsAgo(3)`, false},
		{"empty expression", ``, true},
		{"whitespace only", `   `, true},
		{"unbalanced parens", `(total > 100`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)

				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestFilterMatch(t *testing.T) {
	invoice := zoho.Invoice{
		"invoice_number": "INV-001",
		"customer_name":  "Acme Corp",
		"status":         "overdue",
		"date":           "2020-01-15",
		"total":          150.0,
	}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{"total above threshold", `total > 100`, true},
		{"total below threshold", `total > 200`, false},
		{"status match", `status == "overdue"`, true},
		{"combined match", `status == "overdue" and total > 100`, true},
		{"combined miss", `status == "paid" and total > 100`, false},
		{"contains is case-insensitive", `contains(customer_name, "acme")`, true},
		{"old invoice", `parseDate(date) < daysAgo(30)`, true},
		{"missing field compares as nil", `missing_field == nil`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(invoice)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterMatchNonBoolean(t *testing.T) {
	f, err := Compile(`total + 1`)
	require.NoError(t, err)

	_, err = f.Match(zoho.Invoice{"total": 100.0})
	require.Error(t, err)

	var evalErr *EvaluationError
	assert.ErrorAs(t, err, &evalErr)
}

func TestFilterApply(t *testing.T) {
	invoices := []zoho.Invoice{
		{"invoice_number": "INV-001", "total": 50.0, "status": "paid"},
		{"invoice_number": "INV-002", "total": 150.0, "status": "overdue"},
		{"invoice_number": "INV-003", "total": 300.0, "status": "overdue"},
	}

	f, err := Compile(`status == "overdue" and total > 100`)
	require.NoError(t, err)

	matched, err := f.Apply(invoices)
	require.NoError(t, err)

	require.Len(t, matched, 2)
	assert.Equal(t, "INV-002", matched[0].InvoiceNumber())
	assert.Equal(t, "INV-003", matched[1].InvoiceNumber())
}

func TestFilterApplyNoMatches(t *testing.T) {
	f, err := Compile(`total > 1000`)
	require.NoError(t, err)

	matched, err := f.Apply([]zoho.Invoice{{"total": 10.0}})
	require.NoError(t, err)
	assert.Empty(t, matched)
}
