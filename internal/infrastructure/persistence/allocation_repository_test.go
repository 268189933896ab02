package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAllocationRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()

	alloc, err := payment.NewAllocation(uuid.New(), uuid.New(), decimal.NewFromInt(500), "part settlement")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, alloc))

	found, err := repo.FindByID(ctx, alloc.ID)
	require.NoError(t, err)
	assert.Equal(t, alloc.PaymentID, found.PaymentID)
	assert.Equal(t, payment.AllocationStatusActive, found.Status)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(500)))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormAllocationRepository_FindByPayment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	paymentID := uuid.New()

	older, err := payment.NewAllocation(paymentID, uuid.New(), decimal.NewFromInt(100), "")
	require.NoError(t, err)
	older.AllocatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, older))

	newer, err := payment.NewAllocation(paymentID, uuid.New(), decimal.NewFromInt(200), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, newer))

	unrelated, err := payment.NewAllocation(uuid.New(), uuid.New(), decimal.NewFromInt(50), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, unrelated))

	allocations, err := repo.FindByPayment(ctx, paymentID)
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, newer.ID, allocations[0].ID)
	assert.Equal(t, older.ID, allocations[1].ID)
}

func TestGormAllocationRepository_FindActiveByDocument(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	documentID := uuid.New()

	active, err := payment.NewAllocation(uuid.New(), documentID, decimal.NewFromInt(300), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	reversed, err := payment.NewAllocation(uuid.New(), documentID, decimal.NewFromInt(150), "")
	require.NoError(t, err)
	require.NoError(t, reversed.Reverse())
	require.NoError(t, repo.Save(ctx, reversed))

	allocations, err := repo.FindActiveByDocument(ctx, documentID)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, active.ID, allocations[0].ID)

	all, err := repo.FindByDocument(ctx, documentID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormAllocationRepository_SumActiveByPayment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	paymentID := uuid.New()

	first, err := payment.NewAllocation(paymentID, uuid.New(), decimal.NewFromFloat(120.50), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := payment.NewAllocation(paymentID, uuid.New(), decimal.NewFromFloat(79.50), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	reversed, err := payment.NewAllocation(paymentID, uuid.New(), decimal.NewFromInt(999), "")
	require.NoError(t, err)
	require.NoError(t, reversed.Reverse())
	require.NoError(t, repo.Save(ctx, reversed))

	total, err := repo.SumActiveByPayment(ctx, paymentID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(200)), "got %s", total)
}
