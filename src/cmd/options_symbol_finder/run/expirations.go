package run

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/jiaming2012/options-symbol-finder/src/finder"
	"github.com/jiaming2012/options-symbol-finder/src/models"
)

// ListExpirations prints the expiration chain and marks the entry a run with minDTE would choose.
func ListExpirations(ctx context.Context, brokerage finder.Brokerage, symbol models.StockSymbol, minDTE int, out io.Writer) error {
	entries, err := brokerage.FetchExpirationChain(ctx, symbol)
	if err != nil {
		return fmt.Errorf("ListExpirations: %w", err)
	}

	selected, selectErr := finder.SelectExpiration(entries, minDTE)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Expiration", "DTE", "Type", "Standard", "Selected"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		mark := ""
		if selectErr == nil && e == selected {
			mark = "*"
		}

		table.Append([]string{e.String(), fmt.Sprintf("%d", e.DaysToExpiration), e.ExpirationType, fmt.Sprintf("%t", e.Standard), mark})
	}

	table.Render()

	if selectErr != nil {
		fmt.Fprintf(out, "%v\n", selectErr)
	}

	return nil
}
