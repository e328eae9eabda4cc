package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/jiaming2012/options-symbol-finder/src/models"
	"github.com/jiaming2012/options-symbol-finder/src/utils"
)

const DefaultSheetName = "OptionSymbols"

func AppendRows(ctx context.Context, srv *sheets.Service, spreadsheetId string, sheetName string, values [][]interface{}) error {
	row := &sheets.ValueRange{
		Values: values,
	}

	response, err := srv.Spreadsheets.Values.Append(spreadsheetId, sheetName, row).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return err
	}

	if response.HTTPStatusCode != 200 {
		return fmt.Errorf("invalid http status code: %v", response.HTTPStatusCode)
	}

	return nil
}

// ExportBatch appends one row per selected contract, the same rows as the csv export.
func ExportBatch(ctx context.Context, srv *sheets.Service, spreadsheetId string, sheetName string, batch *models.BatchResult) (int, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	rows := utils.NewOptionSymbolRows(batch)
	if len(rows) == 0 {
		return 0, nil
	}

	createdAt := batch.CreatedAt.Format("2006-01-02T15:04:05Z07:00")

	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		values = append(values, []interface{}{createdAt, r.RequestID, r.Symbol, r.ExpirationDate, r.OptionType, r.Position, r.OptionSymbol})
	}

	if err := AppendRows(ctx, srv, spreadsheetId, sheetName, values); err != nil {
		return 0, fmt.Errorf("ExportBatch: failed to append rows: %w", err)
	}

	return len(values), nil
}
