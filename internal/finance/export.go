package finance

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
)

// ExportRow is one line of the CSV export.
type ExportRow struct {
	Type      string `csv:"Type"`
	Date      string `csv:"Date"`
	Category  string `csv:"Category"`
	Amount    string `csv:"Amount"`
	Notes     string `csv:"Notes"`
	Recurring bool   `csv:"Recurring"`
}

// ExportRows orders transactions by date ascending (incomes before expenses
// on the same day) and flattens them into CSV rows.
func ExportRows(txs []Transaction) []*ExportRow {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := Day(sorted[i].Date), Day(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind == KindIncome
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	rows := make([]*ExportRow, 0, len(sorted))
	for _, t := range sorted {
		row := &ExportRow{
			Type:      t.Kind.Label(),
			Date:      Day(t.Date).Format(DateLayout),
			Amount:    t.Amount.String(),
			Recurring: t.IsRecurring,
		}
		if t.Category != nil {
			row.Category = t.Category.Name
		}
		if t.Notes != nil {
			row.Notes = *t.Notes
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and one CRLF-terminated row per transaction.
// Fields containing commas, quotes or line breaks are quoted with embedded
// quotes doubled.
func WriteCSV(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := gocsv.MarshalCSV(ExportRows(txs), gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}

// ExportFilename names the attachment for a year or a single month.
func ExportFilename(year, month int) string {
	if month == 0 {
		return fmt.Sprintf("export-%d.csv", year)
	}
	return fmt.Sprintf("export-%d-%02d.csv", year, month)
}
