package services

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/logger"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// BackupVersion is the JSON backup format this build reads and writes.
const BackupVersion = 1

// csvColumns is the header written on export. Import accepts these columns
// in any order; tags, method, note and location may be absent.
var csvColumns = []string{"date", "amount", "category", "tags", "method", "note", "location"}

var requiredCSVColumns = []string{"date", "amount", "category"}

// transferService imports and exports the ledger.
type transferService struct {
	store  *storage.Store
	ledger LedgerServicer
	now    func() time.Time
}

// NewTransferService creates a new TransferServicer. now stamps JSON
// exports; nil means time.Now.
func NewTransferService(store *storage.Store, ledger LedgerServicer, now func() time.Time) TransferServicer {
	if now == nil {
		now = time.Now
	}
	return &transferService{store: store, ledger: ledger, now: now}
}

// ExportCSV writes the matching transactions oldest first and returns how
// many rows it wrote.
func (s *transferService) ExportCSV(w io.Writer, filter storage.TransactionFilter) (int, error) {
	rows, err := s.ledger.ListTransactions(filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return 0, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		t := rows[i]
		record := []string{
			t.Date.String(),
			models.FormatAmount(t.Amount),
			t.Category,
			t.Tags.String(),
			string(t.Method),
			t.Note,
			t.Location,
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ImportCSV records every valid row and reports the rest. A row never
// affects another: each is validated and stored on its own, and unknown
// categories are rejected rather than created. Only an unreadable header or
// a storage failure aborts the import.
func (s *transferService) ImportCSV(r io.Reader) (*ImportSummary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.Invalid("header", nil, "CSV file is empty")
	}
	if err != nil {
		return nil, apperrors.Invalid("header", nil, fmt.Sprintf("unreadable CSV header: %v", err))
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Rejected: []RowError{}}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			summary.Rejected = append(summary.Rejected, RowError{Row: row, Reason: parseErr.Err.Error()})
			continue
		}
		if err != nil {
			return summary, apperrors.Invalid("file", nil, fmt.Sprintf("failed to read CSV: %v", err))
		}
		if len(record) != len(header) {
			summary.Rejected = append(summary.Rejected, RowError{
				Row:    row,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			})
			continue
		}

		input, err := columns.input(record)
		if err == nil {
			_, err = s.ledger.RecordTransaction(input)
		}
		if apperrors.IsStorage(err) {
			return summary, err
		}
		if err != nil {
			summary.Rejected = append(summary.Rejected, RowError{Row: row, Reason: rowReason(err)})
			continue
		}
		summary.Imported++
	}

	logger.Get().Infow("CSV import finished", "imported", summary.Imported, "rejected", len(summary.Rejected))
	return summary, nil
}

// csvLayout maps column names to record positions; -1 means absent.
type csvLayout map[string]int

func mapColumns(header []string) (csvLayout, error) {
	layout := csvLayout{}
	for _, name := range csvColumns {
		layout[name] = -1
	}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		pos, known := layout[name]
		if !known {
			return nil, apperrors.Invalid("header", raw, fmt.Sprintf("unknown column %q; expected %s", raw, strings.Join(csvColumns, ",")))
		}
		if pos != -1 {
			return nil, apperrors.Invalid("header", raw, fmt.Sprintf("duplicate column %q", raw))
		}
		layout[name] = i
	}
	for _, name := range requiredCSVColumns {
		if layout[name] == -1 {
			return nil, apperrors.Invalid("header", name, fmt.Sprintf("missing required column %q", name))
		}
	}
	return layout, nil
}

func (l csvLayout) field(record []string, name string) string {
	if pos := l[name]; pos >= 0 {
		return strings.TrimSpace(record[pos])
	}
	return ""
}

// input converts one record to a TransactionInput.
func (l csvLayout) input(record []string) (TransactionInput, error) {
	date, err := models.ParseDate(l.field(record, "date"))
	if err != nil {
		return TransactionInput{}, apperrors.Invalid("date", l.field(record, "date"), err.Error())
	}
	amount, err := models.ParseAmount(l.field(record, "amount"))
	if err != nil {
		return TransactionInput{}, apperrors.Invalid("amount", l.field(record, "amount"), err.Error())
	}

	var tags []string
	if raw := l.field(record, "tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	return TransactionInput{
		Date:     date,
		Amount:   amount,
		Category: l.field(record, "category"),
		Tags:     tags,
		Method:   models.PaymentMethod(strings.ToLower(l.field(record, "method"))),
		Note:     l.field(record, "note"),
		Location: l.field(record, "location"),
	}, nil
}

func rowReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Field != "" {
			return appErr.Field + ": " + appErr.Message
		}
		return appErr.Message
	}
	return err.Error()
}

// ExportJSON writes the full ledger as a backup document.
func (s *transferService) ExportJSON(w io.Writer) error {
	snap, err := s.store.Snapshot()
	if err != nil {
		return err
	}
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Snapshot:   *snap,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(backup)
}

// ImportJSON replaces the whole ledger with a backup document. The document
// is validated in full first; on any failure the ledger is unchanged.
func (s *transferService) ImportJSON(r io.Reader) (*RestoreSummary, error) {
	var backup Backup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, apperrors.Invalid("document", nil, fmt.Sprintf("invalid backup document: %v", err))
	}
	if backup.Version != BackupVersion {
		return nil, apperrors.Invalid("version", backup.Version, fmt.Sprintf("unsupported backup version %d", backup.Version))
	}
	if err := validateSnapshot(&backup.Snapshot); err != nil {
		return nil, err
	}

	if err := s.store.Restore(&backup.Snapshot); err != nil {
		return nil, err
	}

	summary := &RestoreSummary{
		Categories:   len(backup.Categories),
		Transactions: len(backup.Transactions),
		Budgets:      len(backup.Budgets),
		Goals:        len(backup.Goals),
	}
	logger.Get().Infow("JSON backup restored",
		"categories", summary.Categories,
		"transactions", summary.Transactions,
		"budgets", summary.Budgets,
		"goals", summary.Goals,
	)
	return summary, nil
}

// validateSnapshot checks every ledger rule across the whole document and
// normalizes defaults in place.
func validateSnapshot(snap *storage.Snapshot) error {
	kinds := make(map[string]models.CategoryKind, len(snap.Categories))
	for i := range snap.Categories {
		c := &snap.Categories[i]
		field := fmt.Sprintf("categories[%d]", i)
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" || len(c.Name) > MaxCategoryNameLength {
			return apperrors.Invalid(field+".name", c.Name, "category name must be 1-100 characters")
		}
		if !c.Kind.Valid() {
			return apperrors.Invalid(field+".kind", c.Kind, "kind must be income or expense")
		}
		if c.Color != "" && !hexColor.MatchString(c.Color) {
			return apperrors.Invalid(field+".color", c.Color, "color must be a hex value like #1a2b3c")
		}
		if _, dup := kinds[c.Name]; dup {
			return apperrors.WithField(apperrors.ErrDuplicateCategory, field+".name", c.Name,
				fmt.Sprintf("category %q appears twice", c.Name))
		}
		kinds[c.Name] = c.Kind
	}

	seen := map[uint]bool{}
	for i := range snap.Transactions {
		t := &snap.Transactions[i]
		field := fmt.Sprintf("transactions[%d]", i)
		if t.ID == 0 || seen[t.ID] {
			return apperrors.Invalid(field+".id", t.ID, "transaction ids must be positive and unique")
		}
		seen[t.ID] = true
		if t.Date.IsZero() {
			return apperrors.Invalid(field+".date", nil, "date is required")
		}
		if !t.Date.InRange() {
			return apperrors.Invalid(field+".date", t.Date.String(), fmt.Sprintf("date must not be before %d-01-01", models.MinYear))
		}
		if t.Method == "" {
			t.Method = models.PaymentMethodCash
		}
		if !t.Method.Valid() {
			return apperrors.Invalid(field+".method", t.Method, "method must be one of cash, card, transfer, other")
		}
		if len(t.Note) > MaxNoteLength {
			return apperrors.Invalid(field+".note", len(t.Note), fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
		}
		if len(t.Location) > MaxLocationLength {
			return apperrors.Invalid(field+".location", t.Location, fmt.Sprintf("location must be at most %d characters", MaxLocationLength))
		}
		kind, ok := kinds[t.Category]
		if !ok {
			return apperrors.WithField(apperrors.ErrUnknownCategory, field+".category", t.Category,
				fmt.Sprintf("unknown category %q", t.Category))
		}
		category := models.Category{Name: t.Category, Kind: kind}
		if !category.AllowsAmount(t.Amount) {
			return apperrors.Invalid(field+".amount", t.Amount, fmt.Sprintf("amount sign does not match %s category %q", kind, t.Category))
		}
		if t.Tags == nil {
			t.Tags = models.TagSet{}
		}
	}

	seen = map[uint]bool{}
	periods := map[string]bool{}
	for i := range snap.Budgets {
		b := &snap.Budgets[i]
		field := fmt.Sprintf("budgets[%d]", i)
		if b.ID == 0 || seen[b.ID] {
			return apperrors.Invalid(field+".id", b.ID, "budget ids must be positive and unique")
		}
		seen[b.ID] = true
		kind, ok := kinds[b.Category]
		if !ok {
			return apperrors.WithField(apperrors.ErrUnknownCategory, field+".category", b.Category,
				fmt.Sprintf("unknown category %q", b.Category))
		}
		if kind != models.CategoryKindExpense {
			return apperrors.Invalid(field+".category", b.Category, "budgets apply to expense categories only")
		}
		if !b.Period().Valid() {
			return apperrors.Invalid(field+".month", b.Period().String(), "period must be a valid year and month 1-12")
		}
		if b.Limit <= 0 {
			return apperrors.Invalid(field+".limit", b.Limit, "limit must be positive")
		}
		if b.WarningThreshold == 0 {
			b.WarningThreshold = models.DefaultWarningThreshold
		}
		if !validThreshold(b.WarningThreshold) {
			return apperrors.Invalid(field+".warning_threshold", b.WarningThreshold, "warning threshold must be in (0, 1]")
		}
		key := b.Category + "|" + b.Period().String()
		if periods[key] {
			return apperrors.WithField(apperrors.ErrDuplicateBudget, field+".category", b.Category,
				fmt.Sprintf("a budget for %q in %s appears twice", b.Category, b.Period()))
		}
		periods[key] = true
	}

	seen = map[uint]bool{}
	for i := range snap.Goals {
		g := &snap.Goals[i]
		field := fmt.Sprintf("goals[%d]", i)
		if g.ID == 0 || seen[g.ID] {
			return apperrors.Invalid(field+".id", g.ID, "goal ids must be positive and unique")
		}
		seen[g.ID] = true
		if strings.TrimSpace(g.Name) == "" {
			return apperrors.Invalid(field+".name", g.Name, "goal name is required")
		}
		if g.Priority == 0 {
			g.Priority = models.DefaultGoalPriority
		}
		if g.Priority < 0 {
			return apperrors.Invalid(field+".priority", g.Priority, "priority must be at least 1")
		}
		if len(g.Description) > MaxNoteLength {
			return apperrors.Invalid(field+".description", len(g.Description), fmt.Sprintf("description must be at most %d characters", MaxNoteLength))
		}
		if g.Target <= 0 {
			return apperrors.Invalid(field+".target", g.Target, "target must be positive")
		}
		if g.Current < 0 || g.Current > g.Target {
			return apperrors.Invalid(field+".current", g.Current, "current must be between 0 and target")
		}
		if g.Deadline != nil && g.Deadline.IsZero() {
			g.Deadline = nil
		}
		g.Status = g.DeriveStatus()
	}
	return nil
}
