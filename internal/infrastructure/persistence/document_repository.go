package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// openStatuses is the status set counted as open for balance aggregation
var openStatuses = []accounting.DocumentStatus{
	accounting.DocumentStatusIssued,
	accounting.DocumentStatusPartial,
	accounting.DocumentStatusOverdue,
}

// GormDocumentRepository implements accounting.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormDocumentRepository) WithTx(tx *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: tx}
}

// FindByID finds a document with its lines by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FinancialDocument, error) {
	var model models.FinancialDocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a document by ID taking a row lock. The caller
// must run this inside a transaction; the lock is released at commit.
func (r *GormDocumentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*accounting.FinancialDocument, error) {
	var model models.FinancialDocumentModel
	if err := lockForUpdate(r.db.WithContext(ctx)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var lines []models.LineItemModel
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", id).
		Order("sort_order ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	model.Lines = lines
	return model.ToDomain(), nil
}

// FindByDocumentNumber finds a document by its human-readable number
func (r *GormDocumentRepository) FindByDocumentNumber(ctx context.Context, number string) (*accounting.FinancialDocument, error) {
	var model models.FinancialDocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&model, "document_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds documents matching the filter, paginated
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter accounting.DocumentFilter) (shared.Paginated[accounting.FinancialDocument], error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FinancialDocumentModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[accounting.FinancialDocument]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	orderBy := "document_date"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}

	var documentModels []models.FinancialDocumentModel
	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&documentModels).Error; err != nil {
		return shared.Paginated[accounting.FinancialDocument]{}, err
	}

	docs := make([]accounting.FinancialDocument, len(documentModels))
	for i := range documentModels {
		docs[i] = *documentModels[i].ToDomain()
	}
	return shared.NewPaginated(docs, total, page, pageSize), nil
}

// FindOpen finds all committed documents of a type that still carry a
// balance, oldest first
func (r *GormDocumentRepository) FindOpen(ctx context.Context, docType accounting.DocumentType) ([]accounting.FinancialDocument, error) {
	var documentModels []models.FinancialDocumentModel
	if err := r.db.WithContext(ctx).
		Where("document_type = ? AND status IN ? AND balance_due > 0", docType, openStatuses).
		Order("document_date ASC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}

	docs := make([]accounting.FinancialDocument, len(documentModels))
	for i := range documentModels {
		docs[i] = *documentModels[i].ToDomain()
	}
	return docs, nil
}

// FindOpenByParty finds settleable documents for a counterparty, oldest first
func (r *GormDocumentRepository) FindOpenByParty(ctx context.Context, partyID uuid.UUID, docType accounting.DocumentType) ([]accounting.FinancialDocument, error) {
	var documentModels []models.FinancialDocumentModel
	if err := r.db.WithContext(ctx).
		Where("party_id = ? AND document_type = ? AND status IN ? AND balance_due > 0", partyID, docType, openStatuses).
		Order("document_date ASC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}

	docs := make([]accounting.FinancialDocument, len(documentModels))
	for i := range documentModels {
		docs[i] = *documentModels[i].ToDomain()
	}
	return docs, nil
}

// FindOverdue finds documents that are effectively overdue as of the given
// time. The stored status and the derived past-due condition are both
// honored, so documents never swept to OVERDUE still show up.
func (r *GormDocumentRepository) FindOverdue(ctx context.Context, docType accounting.DocumentType, asOf time.Time) ([]accounting.FinancialDocument, error) {
	var documentModels []models.FinancialDocumentModel
	if err := r.db.WithContext(ctx).
		Where("document_type = ? AND balance_due > 0", docType).
		Where("status = ? OR (due_date IS NOT NULL AND due_date < ? AND status IN ?)",
			accounting.DocumentStatusOverdue, asOf, openStatuses).
		Order("due_date ASC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}

	docs := make([]accounting.FinancialDocument, len(documentModels))
	for i := range documentModels {
		docs[i] = *documentModels[i].ToDomain()
	}
	return docs, nil
}

// Save creates or updates a document and replaces its line set atomically
func (r *GormDocumentRepository) Save(ctx context.Context, doc *accounting.FinancialDocument) error {
	model := models.FinancialDocumentModelFromDomain(doc)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := model.Lines
		model.Lines = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves with an optimistic version check
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, doc *accounting.FinancialDocument) error {
	model := models.FinancialDocumentModelFromDomain(doc)
	model.Lines = nil
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", doc.ID, doc.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete soft deletes a document
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FinancialDocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter accounting.DocumentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FinancialDocumentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstanding sums balance_due over open documents of a type
func (r *GormDocumentRepository) SumOutstanding(ctx context.Context, docType accounting.DocumentType) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.FinancialDocumentModel{}).
		Select("COALESCE(SUM(balance_due), 0) as total").
		Where("document_type = ? AND status IN ?", docType, openStatuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumOverdue sums balance_due over effectively overdue documents of a type
func (r *GormDocumentRepository) SumOverdue(ctx context.Context, docType accounting.DocumentType, asOf time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.FinancialDocumentModel{}).
		Select("COALESCE(SUM(balance_due), 0) as total").
		Where("document_type = ? AND balance_due > 0", docType).
		Where("status = ? OR (due_date IS NOT NULL AND due_date < ? AND status IN ?)",
			accounting.DocumentStatusOverdue, asOf, openStatuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumTotalsByPeriod sums total_amount of committed documents of a type per
// period. Truncation happens in Go so the grouping behaves identically on
// every SQL dialect.
func (r *GormDocumentRepository) SumTotalsByPeriod(ctx context.Context, docType accounting.DocumentType, from, to time.Time, granularity string) (map[string]decimal.Decimal, error) {
	g, err := report.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		DocumentDate time.Time
		TotalAmount  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.FinancialDocumentModel{}).
		Select("document_date, total_amount").
		Where("document_type = ? AND status NOT IN ? AND document_date >= ? AND document_date <= ?",
			docType,
			[]accounting.DocumentStatus{accounting.DocumentStatusDraft, accounting.DocumentStatusCancelled},
			from, to).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	series := report.Series{}
	for _, row := range rows {
		series.Accumulate(row.DocumentDate, g, row.TotalAmount)
	}
	return series, nil
}

// ExistsByDocumentNumber checks if a document number is already taken
func (r *GormDocumentRepository) ExistsByDocumentNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FinancialDocumentModel{}).
		Where("document_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// documentNumberPrefixes maps a document type to its number prefix
var documentNumberPrefixes = map[accounting.DocumentType]string{
	accounting.DocumentTypeInvoice:       "INV",
	accounting.DocumentTypeBill:          "BILL",
	accounting.DocumentTypeCreditNote:    "CRN",
	accounting.DocumentTypeDebitNote:     "DBN",
	accounting.DocumentTypeQuotation:     "QTN",
	accounting.DocumentTypePurchaseOrder: "PO",
}

// GenerateDocumentNumber generates the next sequential number for a type.
// Format: PREFIX-YYYYMMDD-XXXXX
func (r *GormDocumentRepository) GenerateDocumentNumber(ctx context.Context, docType accounting.DocumentType) (string, error) {
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("%s-%s-", documentNumberPrefixes[docType], date)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.FinancialDocumentModel{}).
		Select("document_number").
		Where("document_number LIKE ?", prefix+"%").
		Order("document_number DESC").
		Limit(1).
		Pluck("document_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies DocumentFilter conditions to a query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter accounting.DocumentFilter) *gorm.DB {
	if filter.DocumentType != nil {
		query = query.Where("document_type = ?", *filter.DocumentType)
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("document_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("document_date <= ?", *filter.ToDate)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("balance_due > 0").
			Where("status = ? OR (due_date IS NOT NULL AND due_date < ? AND status IN ?)",
				accounting.DocumentStatusOverdue, time.Now(), openStatuses)
	}
	if filter.MinAmount != nil {
		query = query.Where("total_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("total_amount <= ?", *filter.MaxAmount)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("document_number LIKE ? OR party_name LIKE ?", pattern, pattern)
	}
	return query
}
