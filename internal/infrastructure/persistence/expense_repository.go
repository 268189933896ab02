package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormExpenseRepository) WithTx(tx *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: tx}
}

// FindByID finds an expense record by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ExpenseRecord, error) {
	var model models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpenseNumber finds an expense record by its number
func (r *GormExpenseRepository) FindByExpenseNumber(ctx context.Context, number string) (*finance.ExpenseRecord, error) {
	var model models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).First(&model, "expense_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds expense records matching the filter, paginated
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) (shared.Paginated[finance.ExpenseRecord], error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseRecordModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[finance.ExpenseRecord]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	orderBy := "incurred_at"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}

	var expenseModels []models.ExpenseRecordModel
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&expenseModels).Error; err != nil {
		return shared.Paginated[finance.ExpenseRecord]{}, err
	}

	expenses := make([]finance.ExpenseRecord, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = *expenseModels[i].ToDomain()
	}
	return shared.NewPaginated(expenses, total, page, pageSize), nil
}

// Save creates or updates an expense record
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.ExpenseRecord) error {
	model := &models.ExpenseRecordModel{}
	model.FromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

// SumIncurred sums expense amounts incurred in a date range. Rejected and
// cancelled expenses are excluded; approval and payment state do not matter.
func (r *GormExpenseRepository) SumIncurred(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ExpenseRecordModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status NOT IN ? AND incurred_at >= ? AND incurred_at <= ?",
			[]finance.ExpenseStatus{finance.ExpenseStatusRejected, finance.ExpenseStatusCancelled},
			from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumPaidByPeriod sums paid expense amounts per period. Truncation happens
// in Go so the grouping behaves identically on every SQL dialect.
func (r *GormExpenseRepository) SumPaidByPeriod(ctx context.Context, from, to time.Time, granularity string) (map[string]decimal.Decimal, error) {
	g, err := report.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		IncurredAt time.Time
		Amount     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ExpenseRecordModel{}).
		Select("incurred_at, amount").
		Where("payment_status = ? AND incurred_at >= ? AND incurred_at <= ?",
			finance.ExpensePaymentStatusPaid, from, to).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	series := report.Series{}
	for _, row := range rows {
		series.Accumulate(row.IncurredAt, g, row.Amount)
	}
	return series, nil
}

// SumPaidByCategory sums paid expense amounts per category in a date range
func (r *GormExpenseRepository) SumPaidByCategory(ctx context.Context, from, to time.Time) (map[finance.ExpenseCategory]decimal.Decimal, error) {
	var rows []struct {
		Category finance.ExpenseCategory
		Total    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ExpenseRecordModel{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("payment_status = ? AND incurred_at >= ? AND incurred_at <= ?",
			finance.ExpensePaymentStatusPaid, from, to).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[finance.ExpenseCategory]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.Total
	}
	return totals, nil
}

// GenerateExpenseNumber generates the next sequential expense number.
// Format: EXP-YYYYMMDD-XXXXX
func (r *GormExpenseRepository) GenerateExpenseNumber(ctx context.Context) (string, error) {
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("EXP-%s-", date)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.ExpenseRecordModel{}).
		Select("expense_number").
		Where("expense_number LIKE ?", prefix+"%").
		Order("expense_number DESC").
		Limit(1).
		Pluck("expense_number", &maxNumber).Error; err != nil {
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

// applyFilter applies ExpenseFilter conditions to a query
func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("incurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("incurred_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("expense_number LIKE ? OR description LIKE ?", pattern, pattern)
	}
	return query
}
