package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjelbo/zohoctl/filter"
)

// invoicesCmd represents the invoices command
var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List invoices for a date range",
	Long: `Fetch invoices from Zoho Books filtered by date range and status.

An optional --filter expression is evaluated client-side against each
returned invoice, with invoice fields as variables:

  zohoctl invoices --from 2024-01-01 --to 2024-01-31 --status sent
  zohoctl invoices --filter 'total > 100 and status == "overdue"'`,
	RunE: runInvoices,
}

func init() {
	rootCmd.AddCommand(invoicesCmd)

	invoicesCmd.Flags().StringVar(&fromDate, "from", "", "start date (YYYY-MM-DD)")
	invoicesCmd.Flags().StringVar(&toDate, "to", "", "end date (YYYY-MM-DD)")
	invoicesCmd.Flags().StringVar(&status, "status", "", "invoice status filter (sent, paid, overdue, ...)")
	invoicesCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "client-side filter expression")
}

func runInvoices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger.Info().Str("from", fromDate).Str("to", toDate).Str("status", status).
		Msg("Fetching invoices")

	invoices, err := client.GetInvoices(ctx, fromDate, toDate, status)
	if err != nil {
		return err
	}

	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		invoices, err = f.Apply(invoices)
		if err != nil {
			return err
		}
	}

	// Display results
	if len(invoices) == 0 {
		fmt.Println("No invoices found.")
		return nil
	}

	fmt.Printf("\nFound %d invoices:\n", len(invoices))
	fmt.Println(strings.Repeat("-", 80))

	for _, inv := range invoices {
		fmt.Printf("• %s", inv.InvoiceNumber())
		if inv.CustomerName() != "" {
			fmt.Printf("  %s", inv.CustomerName())
		}
		if inv.Date() != "" {
			fmt.Printf("  %s", inv.Date())
		}
		fmt.Printf("  %.2f", inv.Total())
		if inv.Status() != "" {
			fmt.Printf("  [%s]", strings.ToUpper(inv.Status()))
		}
		fmt.Println()
	}

	return nil
}
