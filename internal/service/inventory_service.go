package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// InventoryService owns every mutation of on-hand stock. Billing reserves
// through it, imports add through it, and each change leaves a row in the
// stock movement ledger.
type InventoryService struct {
	medicines repository.MedicineRepository
	movements repository.StockMovementRepository
	imports   repository.ImportRecordRepository
	log       zerolog.Logger
}

func NewInventoryService(
	medicines repository.MedicineRepository,
	movements repository.StockMovementRepository,
	imports repository.ImportRecordRepository,
	log zerolog.Logger,
) *InventoryService {
	return &InventoryService{medicines: medicines, movements: movements, imports: imports, log: log}
}

// ReserveTx atomically takes qty units of a medicine inside the caller's
// transaction. The decrement is conditional on sufficient stock, so two
// concurrent bills can never oversell. Returns the medicine as it was before
// the reservation so callers can snapshot cost fields.
func (s *InventoryService) ReserveTx(tx *gorm.DB, id uuid.UUID, qty int, ref *uuid.UUID) (*model.Medicine, error) {
	med, err := s.medicines.FindByIDTx(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := s.medicines.DecrementStockTx(tx, id, qty)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, &InsufficientStockError{Item: med.Name}
	}

	movement := &model.StockMovement{
		ID:          uuid.New(),
		MedicineID:  med.ID,
		Type:        "sale",
		Quantity:    -qty,
		StockBefore: med.Quantity,
		StockAfter:  med.Quantity - qty,
		ReferenceID: ref,
	}
	if err := s.movements.CreateTx(tx, movement); err != nil {
		return nil, err
	}
	return med, nil
}

// RegisterAdHocItemTx finds a medicine by name or creates it at zero stock.
// Repeated calls with the same name inside one transaction resolve to the
// same row, so a bill listing a manual item twice never creates duplicates.
func (s *InventoryService) RegisterAdHocItemTx(tx *gorm.DB, name string, mrp decimal.Decimal) (*model.Medicine, error) {
	med, err := s.medicines.FindByNameTx(tx, name)
	if err == nil {
		return med, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	med = &model.Medicine{ID: uuid.New(), Name: name, Quantity: 0, MRP: mrp}
	if err := s.medicines.CreateTx(tx, med); err != nil {
		return nil, err
	}
	s.log.Info().Str("medicine", name).Msg("registered ad-hoc item at zero stock")
	return med, nil
}

// AdjustStock applies a signed manual correction. Negative deltas go through
// the same conditional decrement as sales, so stock can never be adjusted
// below zero.
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, delta int, reason string) (*dto.MedicineResponse, error) {
	if delta == 0 {
		return nil, ErrInvalidNumeric
	}

	var adjusted *model.Medicine
	err := runTx(ctx, s.medicines.DB(), func(tx *gorm.DB) error {
		med, err := s.medicines.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if delta < 0 {
			rows, err := s.medicines.DecrementStockTx(tx, id, -delta)
			if err != nil {
				return err
			}
			if rows == 0 {
				return &InsufficientStockError{Item: med.Name}
			}
		} else {
			if err := s.medicines.AddStockTx(tx, id, delta); err != nil {
				return err
			}
		}

		movement := &model.StockMovement{
			ID:          uuid.New(),
			MedicineID:  med.ID,
			Type:        "adjustment",
			Quantity:    delta,
			StockBefore: med.Quantity,
			StockAfter:  med.Quantity + delta,
			Reason:      reason,
		}
		if err := s.movements.CreateTx(tx, movement); err != nil {
			return err
		}

		med.Quantity += delta
		adjusted = med
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toMedicineResponse(adjusted)
	return &resp, nil
}

// Movements returns the most recent ledger entries, newest first.
func (s *InventoryService) Movements(ctx context.Context, limit int) ([]model.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.movements.List(ctx, limit)
}

// importRow is one parsed line of an uploaded stock file.
type importRow struct {
	name       string
	quantity   int
	freeQty    int
	batchNo    string
	expiryDate *time.Time
	mrp        decimal.Decimal
	ptr        decimal.Decimal
	gstPercent decimal.Decimal
	category   string
	formula    string
}

// Import ingests a CSV or XLSX stock file. Quantities are additive: a row for
// an existing medicine adds to on-hand stock and refreshes price fields, it
// never overwrites the count. The whole file commits in one transaction and
// leaves an audit record.
func (s *InventoryService) Import(ctx context.Context, filename string, r io.Reader, userID *uuid.UUID) (*dto.ImportResult, error) {
	var (
		rows   []importRow
		result = &dto.ImportResult{}
		err    error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = parseCSV(r, result)
	case ".xlsx":
		rows, err = parseXLSX(r, result)
	default:
		return nil, fmt.Errorf("unsupported file type %q: %w", filepath.Ext(filename), ErrMissingInput)
	}
	if err != nil {
		return nil, err
	}

	recordID := uuid.New()
	err = runTx(ctx, s.medicines.DB(), func(tx *gorm.DB) error {
		for _, row := range rows {
			existing, err := s.medicines.FindByNameTx(tx, row.name)
			switch {
			case err == nil:
				if row.quantity > 0 {
					if err := s.medicines.AddStockTx(tx, existing.ID, row.quantity); err != nil {
						return err
					}
					movement := &model.StockMovement{
						ID:          uuid.New(),
						MedicineID:  existing.ID,
						Type:        "import",
						Quantity:    row.quantity,
						StockBefore: existing.Quantity,
						StockAfter:  existing.Quantity + row.quantity,
						ReferenceID: &recordID,
					}
					if err := s.movements.CreateTx(tx, movement); err != nil {
						return err
					}
				}
				existing.FreeQty += row.freeQty
				if row.batchNo != "" {
					existing.BatchNo = row.batchNo
				}
				if row.expiryDate != nil {
					existing.ExpiryDate = row.expiryDate
				}
				if row.mrp.IsPositive() {
					existing.MRP = row.mrp
				}
				if row.ptr.IsPositive() {
					existing.PTR = row.ptr
				}
				if row.gstPercent.IsPositive() {
					existing.GstPercent = row.gstPercent
				}
				if row.category != "" {
					existing.Category = row.category
				}
				if row.formula != "" {
					existing.Formula = row.formula
				}
				if err := s.medicines.UpdateTx(tx, existing); err != nil {
					return err
				}
				result.Updated++

			case errors.Is(err, gorm.ErrRecordNotFound):
				med := &model.Medicine{
					ID:         uuid.New(),
					Name:       row.name,
					Quantity:   row.quantity,
					FreeQty:    row.freeQty,
					BatchNo:    row.batchNo,
					ExpiryDate: row.expiryDate,
					MRP:        row.mrp,
					PTR:        row.ptr,
					GstPercent: row.gstPercent,
					Category:   row.category,
					Formula:    row.formula,
				}
				if err := s.medicines.CreateTx(tx, med); err != nil {
					return err
				}
				if row.quantity > 0 {
					movement := &model.StockMovement{
						ID:          uuid.New(),
						MedicineID:  med.ID,
						Type:        "import",
						Quantity:    row.quantity,
						StockBefore: 0,
						StockAfter:  row.quantity,
						ReferenceID: &recordID,
					}
					if err := s.movements.CreateTx(tx, movement); err != nil {
						return err
					}
				}
				result.Added++

			default:
				return err
			}
		}

		return s.imports.CreateTx(tx, &model.ImportRecord{
			ID:               recordID,
			OriginalFilename: filename,
			ImportedCount:    result.Added,
			UpdatedCount:     result.Updated,
			UserID:           userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("file", filename).
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("stock import complete")
	return result, nil
}

// importColumns maps recognized header names to row fields. Quantity column
// aliases cover the spreadsheet formats suppliers actually send.
var importColumns = map[string]string{
	"name":          "name",
	"medicine_name": "name",
	"medicine":      "name",
	"quantity":      "quantity",
	"qty":           "quantity",
	"free_qty":      "free_qty",
	"free":          "free_qty",
	"batch_no":      "batch_no",
	"batch":         "batch_no",
	"expiry_date":   "expiry_date",
	"expiry":        "expiry_date",
	"mrp":           "mrp",
	"ptr":           "ptr",
	"gst_percent":   "gst_percent",
	"gst":           "gst_percent",
	"category":      "category",
	"formula":       "formula",
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := importColumns[key]; ok {
			idx[field] = i
		}
	}
	return idx
}

func cell(record []string, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRecord(record []string, idx map[string]int, line int, result *dto.ImportResult) (importRow, bool) {
	row := importRow{
		name:     cell(record, idx, "name"),
		batchNo:  cell(record, idx, "batch_no"),
		category: cell(record, idx, "category"),
		formula:  cell(record, idx, "formula"),
	}
	if row.name == "" {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing name", line))
		return row, false
	}

	var err error
	if v := cell(record, idx, "quantity"); v != "" {
		if row.quantity, err = strconv.Atoi(v); err != nil || row.quantity < 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad quantity %q", line, v))
			return row, false
		}
	}
	if v := cell(record, idx, "free_qty"); v != "" {
		if row.freeQty, err = strconv.Atoi(v); err != nil || row.freeQty < 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad free_qty %q", line, v))
			return row, false
		}
	}
	if v := cell(record, idx, "expiry_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad expiry_date %q", line, v))
			return row, false
		}
		row.expiryDate = &t
	}
	for _, f := range []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"mrp", &row.mrp},
		{"ptr", &row.ptr},
		{"gst_percent", &row.gstPercent},
	} {
		if v := cell(record, idx, f.field); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil || d.IsNegative() {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad %s %q", line, f.field, v))
				return row, false
			}
			*f.dst = d
		}
	}
	return row, true
}

func parseCSV(r io.Reader, result *dto.ImportResult) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	idx := headerIndex(header)
	if _, ok := idx["name"]; !ok {
		return nil, fmt.Errorf("csv header has no name column: %w", ErrMissingInput)
	}

	var rows []importRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if row, ok := parseRecord(record, idx, line, result); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func parseXLSX(r io.Reader, result *dto.ImportResult) ([]importRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading xlsx rows: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("xlsx sheet %q is empty: %w", sheet, ErrMissingInput)
	}

	idx := headerIndex(records[0])
	if _, ok := idx["name"]; !ok {
		return nil, fmt.Errorf("xlsx header has no name column: %w", ErrMissingInput)
	}

	var rows []importRow
	for i, record := range records[1:] {
		if row, ok := parseRecord(record, idx, i+2, result); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
