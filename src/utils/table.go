package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

// RenderTable writes one block per successful symbol with calls and puts side
// by side, followed by the failures.
func RenderTable(out io.Writer, batch *models.BatchResult) error {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	succeeded := batch.SucceededSymbols()
	if len(succeeded) > 0 {
		table := tablewriter.NewWriter(display)
		table.SetHeader([]string{"Symbol", "Expiration", "Underlying", "Call", "Put"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, symbol := range succeeded {
			result := batch.Results[symbol]
			price, _ := batch.UnderlyingPrices[symbol].Float64()
			underlying := fmt.Sprintf("$%s", p.Sprintf("%.2f", price))

			rows := len(result.Calls)
			if len(result.Puts) > rows {
				rows = len(result.Puts)
			}

			for i := 0; i < rows; i++ {
				row := []string{"", "", "", at(result.Calls, i), at(result.Puts, i)}
				if i == 0 {
					row[0] = symbol.String()
					row[1] = batch.ExpirationDates[symbol]
					row[2] = underlying
				}

				table.Append(row)
			}
		}

		table.Render()
	}

	failed := batch.FailedSymbols()
	if len(failed) > 0 {
		display.WriteString("Failures:\n")

		table := tablewriter.NewWriter(display)
		table.SetHeader([]string{"Symbol", "Kind", "Reason"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, symbol := range failed {
			reason := batch.Failures[symbol]
			table.Append([]string{symbol.String(), string(reason.Kind), reason.Message})
		}

		table.Render()
	}

	if _, err := io.WriteString(out, display.String()); err != nil {
		return fmt.Errorf("RenderTable: failed to write table: %w", err)
	}

	return nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}

	return ""
}
