// Package spreadsheet exports mortgage scenarios as workbooks whose
// amortization rows are live formulas rather than computed values.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"github.com/iwvelando/mortgage-planner/pkg/loans"
	"github.com/iwvelando/mortgage-planner/pkg/mathutil"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single sheet in an exported workbook.
const SheetName = "Amortization"

// ContentType is the MIME type of an exported workbook.
const ContentType = constants.SpreadsheetContentType

// Columns of the amortization table.
const (
	ColumnMonth            = "A"
	ColumnInterest         = "B"
	ColumnPrincipal        = "C"
	ColumnExtraPayment     = "D"
	ColumnTotalPayment     = "E"
	ColumnRemainingBalance = "F"
)

// Headers labels the amortization table columns in order.
var Headers = []string{"Month", "Interest", "Principal", "Extra Payment", "Total Payment", "Remaining Balance"}

// currencyFormat is the built-in "#,##0.00" number format.
const currencyFormat = 4

type metadataEntry struct {
	label    string
	value    interface{}
	currency bool
}

func metadata(s loans.Scenario, basePayment float64) []metadataEntry {
	return []metadataEntry{
		{label: "Scenario", value: s.Name},
		{label: "Property Price", value: s.PropertyPrice, currency: true},
		{label: "Down Payment (%)", value: s.DownPaymentPercent},
		{label: "Down Payment Amount", value: s.DownPaymentAmount, currency: true},
		{label: "Loan Amount", value: s.LoanAmount, currency: true},
		{label: "Annual Interest Rate (%)", value: s.AnnualRatePercent},
		{label: "Loan Term (Years)", value: s.TermYears},
		{label: "Extra Monthly Payment", value: s.ExtraMonthlyPayment, currency: true},
		{label: "Extra Payment Months", value: s.ExtraPaymentMonths},
		{label: "Base Monthly Payment", value: basePayment, currency: true},
	}
}

// Layout locates the blocks of an exported sheet.
type Layout struct {
	MetadataRows int
	HeaderRow    int
	FirstDataRow int
}

// DefaultLayout is the layout every export uses: the metadata block, one
// blank row, the header row, then one row per month.
var DefaultLayout = newLayout(len(metadata(loans.Scenario{}, 0)))

func newLayout(metadataRows int) Layout {
	return Layout{
		MetadataRows: metadataRows,
		HeaderRow:    metadataRows + 2,
		FirstDataRow: metadataRows + 3,
	}
}

// DataRow returns the sheet row holding the given 1-based month.
func (l Layout) DataRow(month int) int {
	return l.FirstDataRow + month - 1
}

// ExportFormulas builds a workbook for the scenario with rowCount formula
// rows replaying the amortization recurrence from basePayment. The formulas
// do not cap the final payment at the outstanding balance, so a scenario that
// pays off early shows a negative balance in its last rows. rowCount should
// be the MonthsToPayoff of the scenario's schedule; a rowCount of zero or less
// exports the metadata and header only.
func ExportFormulas(s loans.Scenario, rowCount int, basePayment float64) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := build(f, s, rowCount, basePayment); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Write exports the scenario and writes the workbook to w.
func Write(w io.Writer, s loans.Scenario, rowCount int, basePayment float64) error {
	f, err := ExportFormulas(s, rowCount, basePayment)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook for scenario %s: %w", s.Name, err)
	}
	return nil
}

func build(f *excelize.File, s loans.Scenario, rowCount int, basePayment float64) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	currencyStyle, err := f.NewStyle(&excelize.Style{NumFmt: currencyFormat})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	entries := metadata(s, basePayment)
	layout := newLayout(len(entries))

	for i, entry := range entries {
		row := i + 1
		if err := setCell(f, "A", row, entry.label); err != nil {
			return err
		}
		if err := setCell(f, "B", row, entry.value); err != nil {
			return err
		}
		if entry.currency {
			cell := cellName("B", row)
			if err := f.SetCellStyle(SheetName, cell, cell, currencyStyle); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	for i, header := range Headers {
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := setCell(f, column, layout.HeaderRow, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetName, cellName(ColumnMonth, layout.HeaderRow),
		cellName(ColumnRemainingBalance, layout.HeaderRow), headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	formulas := newFormulaBuilder(s, basePayment)
	for month := 1; month <= rowCount; month++ {
		row := layout.DataRow(month)
		if err := setCell(f, ColumnMonth, row, month); err != nil {
			return err
		}
		for _, column := range []string{ColumnInterest, ColumnPrincipal, ColumnExtraPayment,
			ColumnTotalPayment, ColumnRemainingBalance} {
			cell := cellName(column, row)
			if err := f.SetCellFormula(SheetName, cell, formulas.formula(column, row, month)); err != nil {
				return fmt.Errorf("failed to set formula in %s: %w", cell, err)
			}
		}
	}
	if rowCount > 0 {
		if err := f.SetCellStyle(SheetName, cellName(ColumnInterest, layout.FirstDataRow),
			cellName(ColumnRemainingBalance, layout.DataRow(rowCount)), currencyStyle); err != nil {
			return fmt.Errorf("failed to style data rows: %w", err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 26); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "B", ColumnRemainingBalance, 18)
}

func setCell(f *excelize.File, column string, row int, value interface{}) error {
	cell := cellName(column, row)
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}

func cellName(column string, row int) string {
	return fmt.Sprintf("%s%d", column, row)
}

// formulaBuilder renders the per-month formulas. Scenario inputs are embedded
// as literals so the sheet recomputes from its own balance column.
type formulaBuilder struct {
	loanAmount  string
	monthlyRate string
	basePayment string
	extra       string
	extraMonths string
}

func newFormulaBuilder(s loans.Scenario, basePayment float64) formulaBuilder {
	return formulaBuilder{
		loanAmount:  mathutil.Literal(s.LoanAmount),
		monthlyRate: mathutil.Literal(s.MonthlyRate()),
		basePayment: mathutil.Literal(basePayment),
		extra:       mathutil.Literal(s.ExtraMonthlyPayment),
		extraMonths: fmt.Sprintf("%d", s.ExtraPaymentMonths),
	}
}

// openingBalance is the previous row's balance cell, or the loan amount in
// the first month.
func (b formulaBuilder) openingBalance(row, month int) string {
	if month == 1 {
		return b.loanAmount
	}
	return cellName(ColumnRemainingBalance, row-1)
}

func (b formulaBuilder) formula(column string, row, month int) string {
	switch column {
	case ColumnInterest:
		return fmt.Sprintf("%s*%s", b.openingBalance(row, month), b.monthlyRate)
	case ColumnPrincipal:
		return fmt.Sprintf("%s-%s", b.basePayment, cellName(ColumnInterest, row))
	case ColumnExtraPayment:
		return fmt.Sprintf("IF(%s<=%s,%s,0)", cellName(ColumnMonth, row), b.extraMonths, b.extra)
	case ColumnTotalPayment:
		return fmt.Sprintf("%s+%s", b.basePayment, cellName(ColumnExtraPayment, row))
	case ColumnRemainingBalance:
		return fmt.Sprintf("%s-%s-%s", b.openingBalance(row, month),
			cellName(ColumnPrincipal, row), cellName(ColumnExtraPayment, row))
	}
	return ""
}
