// Package output provides utilities for formatting and displaying schedule results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-planner/internal/planner"
	"github.com/iwvelando/mortgage-planner/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []planner.Result) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		s := result.Scenario
		totals := result.Schedule.Totals
		if _, err := fmt.Fprintf(w, "--- Results for scenario %s ---\n", s.Name); err != nil {
			return err
		}
		fmt.Fprintf(w, "Loan amount: %s at %s for %s\n",
			format.Currency(s.LoanAmount), format.Percent(s.AnnualRatePercent), format.Duration(s.TermMonths()))
		fmt.Fprintf(w, "Base monthly payment: %s\n", format.Currency(result.Schedule.BasePayment))
		if s.ExtraMonthlyPayment > 0 && s.ExtraPaymentMonths > 0 {
			fmt.Fprintf(w, "Extra payment: %s for %d months\n", format.Currency(s.ExtraMonthlyPayment), s.ExtraPaymentMonths)
		}
		fmt.Fprintf(w, "Month | Interest | Principal | Extra | Total | Balance\n")
		fmt.Fprintf(w, "_____ | ________ | _________ | _____ | _____ | _______\n")
		for _, row := range result.Schedule.Rows {
			_, _ = p.Fprintf(w, "%d | $%.2f | $%.2f | $%.2f | $%.2f | $%.2f\n",
				row.Month, row.Interest, row.Principal, row.ExtraPayment, row.TotalPayment, row.RemainingBalance)
		}
		_, _ = p.Fprintf(w, "Totals | $%.2f | $%.2f | $%.2f | $%.2f |\n",
			totals.Interest, totals.Principal, totals.ExtraPayments, totals.TotalPayments)
		if _, err := fmt.Fprintf(w, "Paid off in %s\n", format.Duration(totals.MonthsToPayoff)); err != nil {
			return err
		}
		if len(results) > 1 && i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format, one line per scenario month.
func CsvFormat(w io.Writer, results []planner.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"scenario", "month", "interest", "principal", "extra_payment", "total_payment", "remaining_balance"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, result := range results {
		for _, row := range result.Schedule.Rows {
			record := []string{
				result.Scenario.Name,
				strconv.Itoa(row.Month),
				money(row.Interest),
				money(row.Principal),
				money(row.ExtraPayment),
				money(row.TotalPayment),
				money(row.RemainingBalance),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
