package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes the processed batch as a flat CSV for spreadsheet
// consumption, one row per transaction in pipeline order.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "date", "type", "amount", "currency", "category", "categorySource",
		"merchant", "recipient", "description", "isTransfer", "isExcluded",
		"isRecurring", "recurringFrequency", "doubleBookingMatch",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := range r.Transactions {
		tx := &r.Transactions[i]
		record := []string{
			tx.ID,
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Currency,
			tx.Category,
			string(tx.CategorySource),
			tx.Merchant,
			tx.Recipient,
			tx.Description,
			strconv.FormatBool(tx.IsTransfer),
			strconv.FormatBool(tx.IsExcluded),
			strconv.FormatBool(tx.IsRecurring),
			string(tx.RecurringFrequency),
			tx.DoubleBookingMatch,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full result, including mappings and pairs, as
// indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
