package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type OptionSymbolRow struct {
	RequestID      string `csv:"request_id"`
	Symbol         string `csv:"symbol"`
	ExpirationDate string `csv:"expiration_date"`
	OptionType     string `csv:"option_type"`
	Position       int    `csv:"position"`
	OptionSymbol   string `csv:"option_symbol"`
}

// NewOptionSymbolRows flattens a batch into one row per selected contract, in request order.
func NewOptionSymbolRows(batch *models.BatchResult) []*OptionSymbolRow {
	var rows []*OptionSymbolRow
	for _, symbol := range batch.SucceededSymbols() {
		result := batch.Results[symbol]
		for _, optionType := range models.OptionTypes {
			for i, optionSymbol := range result.Get(optionType) {
				rows = append(rows, &OptionSymbolRow{
					RequestID:      batch.RequestID.String(),
					Symbol:         symbol.String(),
					ExpirationDate: batch.ExpirationDates[symbol],
					OptionType:     string(optionType),
					Position:       i,
					OptionSymbol:   optionSymbol,
				})
			}
		}
	}

	return rows
}

func ExportToCsv(outDir string, batch *models.BatchResult, outFilePrefix string, now time.Time) (string, error) {
	outFilePath := path.Join(outDir, fmt.Sprintf("%s_%s.csv", outFilePrefix, now.Format("2006-01-02_15-04-05")))

	// Create directory if it doesn't exist
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("ExportToCsv: failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to create file: %w", err)
	}
	defer file.Close()

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = ','
		return gocsv.NewSafeCSVWriter(writer)
	})

	rows := NewOptionSymbolRows(batch)
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to write to file: %w", err)
	}

	return outFilePath, nil
}
