package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// ConflictKey is the reconciliation key for product imports. Records
// with a matching SKU are overwritten, new SKUs are inserted.
const ConflictKey = "sku"

// WarningMetadataColumnMissing flags that the batch was written without
// metadata because the store does not have the column yet.
const WarningMetadataColumnMissing = "metadata_not_updated_column_missing"

// ProductUpserter writes a batch of records in one reconciling upsert on
// conflictKey. omitColumns excludes columns from the write entirely.
type ProductUpserter interface {
	UpsertProducts(ctx context.Context, conflictKey string, products []*models.Product, omitColumns ...string) (int, error)
}

// Result is the terminal outcome of a successful import.
type Result struct {
	OK       bool   `json:"ok"`
	Imported int    `json:"imported"`
	Message  string `json:"message"`
	Warning  string `json:"_warning,omitempty"`
	Hint     string `json:"_hint,omitempty"`
}

// Importer drives the import pipeline: decode, validate every row, then
// submit the whole batch in a single upsert keyed by SKU. The batch
// either fully validates or is rejected before any write.
type Importer struct {
	store  ProductUpserter
	logger *logrus.Entry
}

func New(store ProductUpserter, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Importer{
		store:  store,
		logger: logger.WithField("component", "importer"),
	}
}

// Import runs the pipeline over an uploaded spreadsheet. Validation
// failures surface as *RowError (naming the first invalid row) or
// ErrEmptyWorkbook; either aborts before any write. A recognized
// missing-metadata-column rejection from the store is retried once with
// the metadata column stripped and reported as a warning.
func (i *Importer) Import(ctx context.Context, data []byte, filename string) (*Result, error) {
	rows, err := DecodeSheet(data, filename)
	if err != nil {
		return nil, err
	}

	products := make([]*models.Product, 0, len(rows))
	for idx, row := range rows {
		product, err := ValidateRow(row, idx)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	result := &Result{OK: true}

	count, err := i.store.UpsertProducts(ctx, ConflictKey, products)
	if err != nil {
		if !isMetadataColumnMissing(err) {
			return nil, err
		}

		i.logger.WithError(err).Warn("metadata column missing, retrying batch without metadata")
		count, err = i.store.UpsertProducts(ctx, ConflictKey, products, "metadata")
		if err != nil {
			return nil, err
		}
		result.Warning = WarningMetadataColumnMissing
		result.Hint = "Crie a coluna 'metadata jsonb' na tabela products"
	}

	result.Imported = count
	result.Message = fmt.Sprintf("Importação concluída (%d itens).", count)

	i.logger.WithFields(logrus.Fields{
		"rows":     len(rows),
		"imported": count,
	}).Info("import completed")

	return result, nil
}

// isMetadataColumnMissing recognizes the store rejecting the batch
// because the optional metadata column does not exist. This is a one-off
// compatibility shim for stores migrated before the column was added; it
// is deliberately not generalized to other fields.
func isMetadataColumnMissing(err error) bool {
	msg := err.Error()
	if !strings.Contains(msg, "metadata") {
		return false
	}
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "42703")
}
