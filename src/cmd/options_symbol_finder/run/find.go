package run

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-symbol-finder/src/config"
	"github.com/jiaming2012/options-symbol-finder/src/models"
	"github.com/jiaming2012/options-symbol-finder/src/utils"
)

var AllSymbolsFailedErr = fmt.Errorf("every symbol failed")

type FindArgs struct {
	Symbols []models.StockSymbol
	MinDTE  int
	Format  string
	OutDir  string
	Export  BatchExporter
}

// BatchExporter ships a finished batch somewhere outside the process, returning the number of rows written.
type BatchExporter func(ctx context.Context, batch *models.BatchResult) (int, error)

type FindResult struct {
	Batch        *models.BatchResult
	CsvPath      string
	ExportedRows int
}

type batchProcessor interface {
	ProcessSymbols(ctx context.Context, symbols []models.StockSymbol, minDaysToExpiration int) *models.BatchResult
}

// Find runs the batch and writes it to out. The error is AllSymbolsFailedErr
// only when nothing succeeded; partial failures are reported in the output.
func Find(ctx context.Context, f batchProcessor, args FindArgs, out io.Writer) (FindResult, error) {
	batch := f.ProcessSymbols(ctx, args.Symbols, args.MinDTE)
	result := FindResult{Batch: batch}

	switch args.Format {
	case config.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch); err != nil {
			return result, fmt.Errorf("Find: failed to encode batch: %w", err)
		}
	default:
		if err := utils.RenderTable(out, batch); err != nil {
			return result, fmt.Errorf("Find: %w", err)
		}
	}

	if args.OutDir != "" {
		csvPath, err := utils.ExportToCsv(args.OutDir, batch, "option_symbols", time.Now())
		if err != nil {
			return result, fmt.Errorf("Find: %w", err)
		}

		log.Infof("CSV file written to: %s", csvPath)
		result.CsvPath = csvPath
	}

	if args.Export != nil {
		n, err := args.Export(ctx, batch)
		if err != nil {
			return result, fmt.Errorf("Find: failed to export batch: %w", err)
		}

		log.Infof("exported %d rows", n)
		result.ExportedRows = n
	}

	if batch.IsTotalFailure() {
		return result, AllSymbolsFailedErr
	}

	return result, nil
}
