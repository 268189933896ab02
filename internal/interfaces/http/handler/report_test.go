package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	appreport "github.com/bizledger/backend/internal/application/report"
	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type reportTestServer struct {
	engine   *gin.Engine
	payments *persistence.GormPaymentRepository
}

func newReportTestServer(t *testing.T) *reportTestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.FinancialDocumentModel{},
		&models.LineItemModel{},
		&models.PaymentModel{},
		&models.AllocationModel{},
		&models.BankAccountModel{},
		&models.ExpenseRecordModel{},
	))

	payments := persistence.NewGormPaymentRepository(db)
	service := appreport.NewService(
		persistence.NewGormDocumentRepository(db),
		payments,
		persistence.NewGormExpenseRepository(db),
		persistence.NewGormBankAccountRepository(db),
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	NewReportHandler(service).RegisterRoutes(api)
	return &reportTestServer{engine: engine, payments: payments}
}

func (s *reportTestServer) seedInboundPayment(t *testing.T, amount int64, date time.Time) {
	t.Helper()

	number, err := s.payments.GeneratePaymentNumber(context.Background(), payment.DirectionInbound)
	require.NoError(t, err)
	pay, err := payment.NewPayment(payment.NewPaymentParams{
		PaymentNumber: number,
		Direction:     payment.DirectionInbound,
		PartyID:       uuid.New(),
		PartyName:     "Acme Traders",
		PaymentDate:   date,
		Amount:        decimal.NewFromInt(amount),
		Mode:          payment.ModeCash,
	})
	require.NoError(t, err)
	require.NoError(t, s.payments.Save(context.Background(), pay))
}

func TestReportHandler_Dashboard(t *testing.T) {
	t.Run("end date covers the whole day", func(t *testing.T) {
		s := newReportTestServer(t)
		s.seedInboundPayment(t, 500, time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))

		path := "/api/v1/reports/dashboard?start_date=2026-08-01&end_date=2026-08-20"
		w, env := doJSON(t, s.engine, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, env.Success)

		var summary report.DashboardSummary
		require.NoError(t, json.Unmarshal(env.Data, &summary))
		assert.InDelta(t, 500, summary.PeriodIncome, 0.001)
	})

	t.Run("payments after the end date stay out", func(t *testing.T) {
		s := newReportTestServer(t)
		s.seedInboundPayment(t, 500, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))

		path := "/api/v1/reports/dashboard?start_date=2026-08-01&end_date=2026-08-20"
		w, env := doJSON(t, s.engine, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summary report.DashboardSummary
		require.NoError(t, json.Unmarshal(env.Data, &summary))
		assert.InDelta(t, 0, summary.PeriodIncome, 0.001)
	})
}
