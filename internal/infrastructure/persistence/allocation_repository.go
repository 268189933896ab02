package persistence

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAllocationRepository implements payment.AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormAllocationRepository) WithTx(tx *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: tx}
}

// FindByID finds an allocation by ID
func (r *GormAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Allocation, error) {
	var model models.AllocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPayment finds all allocations for a payment, newest first
func (r *GormAllocationRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]payment.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("allocated_at DESC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// FindByDocument finds all allocations against a document, newest first
func (r *GormAllocationRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]payment.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("allocated_at DESC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// FindActiveByDocument finds active allocations against a document
func (r *GormAllocationRepository) FindActiveByDocument(ctx context.Context, documentID uuid.UUID) ([]payment.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("document_id = ? AND status = ?", documentID, payment.AllocationStatusActive).
		Order("allocated_at DESC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, a *payment.Allocation) error {
	model := &models.AllocationModel{}
	model.FromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// SumActiveByPayment sums active allocation amounts for a payment
func (r *GormAllocationRepository) SumActiveByPayment(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AllocationModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("payment_id = ? AND status = ?", paymentID, payment.AllocationStatusActive).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func toDomainAllocations(allocationModels []models.AllocationModel) []payment.Allocation {
	allocations := make([]payment.Allocation, len(allocationModels))
	for i := range allocationModels {
		allocations[i] = *allocationModels[i].ToDomain()
	}
	return allocations
}
