package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestPayment(t *testing.T, amount string) *Payment {
	t.Helper()
	bank := uuid.New()
	p, err := NewPayment(NewPaymentParams{
		PaymentNumber: "RCPT-2026-0001",
		Direction:     DirectionInbound,
		PartyID:       uuid.New(),
		PartyName:     "Acme Traders",
		PaymentDate:   time.Now(),
		Amount:        d(amount),
		Mode:          ModeBankTransfer,
		BankAccountID: &bank,
		Reference:     "UTR123456",
	})
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("inbound starts received and fully unallocated", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		assert.Equal(t, StatusReceived, p.Status)
		assert.True(t, p.AllocatedAmount.IsZero())
		assert.True(t, p.UnallocatedAmount.Equal(d("5000")))
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("outbound starts paid", func(t *testing.T) {
		p, err := NewPayment(NewPaymentParams{
			PaymentNumber: "PMT-2026-0001",
			Direction:     DirectionOutbound,
			PartyID:       uuid.New(),
			PaymentDate:   time.Now(),
			Amount:        d("1200"),
			Mode:          ModeCash,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, p.Status)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(NewPaymentParams{
			PaymentNumber: "RCPT-2026-0002",
			Direction:     DirectionInbound,
			PartyID:       uuid.New(),
			PaymentDate:   time.Now(),
			Amount:        decimal.Zero,
			Mode:          ModeCash,
		})
		assert.Error(t, err)
	})

	t.Run("non-cash mode requires a bank account", func(t *testing.T) {
		_, err := NewPayment(NewPaymentParams{
			PaymentNumber: "RCPT-2026-0003",
			Direction:     DirectionInbound,
			PartyID:       uuid.New(),
			PaymentDate:   time.Now(),
			Amount:        d("100"),
			Mode:          ModeUPI,
		})
		assert.Error(t, err)
	})
}

func TestPayment_Allocate(t *testing.T) {
	t.Run("tracks allocated and unallocated", func(t *testing.T) {
		p := newTestPayment(t, "5000")

		require.NoError(t, p.Allocate(d("3000")))
		assert.True(t, p.AllocatedAmount.Equal(d("3000")))
		assert.True(t, p.UnallocatedAmount.Equal(d("2000")))
		assert.False(t, p.IsFullyAllocated())

		require.NoError(t, p.Allocate(d("2000")))
		assert.True(t, p.IsFullyAllocated())
		require.NoError(t, p.CheckAllocationInvariant())
	})

	t.Run("rejects exceeding the unallocated pool", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		require.NoError(t, p.Allocate(d("4999.99")))

		err := p.Allocate(d("0.02"))
		assert.Error(t, err)
		assert.True(t, p.AllocatedAmount.Equal(d("4999.99")))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		assert.Error(t, p.Allocate(decimal.Zero))
		assert.Error(t, p.Allocate(d("-1")))
	})

	t.Run("rejects cancelled payment", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		require.NoError(t, p.Cancel("entered twice"))
		assert.Error(t, p.Allocate(d("10")))
	})
}

func TestPayment_ReverseAllocation(t *testing.T) {
	p := newTestPayment(t, "5000")
	require.NoError(t, p.Allocate(d("3000")))

	require.NoError(t, p.ReverseAllocation(d("1000")))
	assert.True(t, p.AllocatedAmount.Equal(d("2000")))
	assert.True(t, p.UnallocatedAmount.Equal(d("3000")))
	require.NoError(t, p.CheckAllocationInvariant())

	assert.Error(t, p.ReverseAllocation(d("2000.01")))
}

func TestPayment_Cancel(t *testing.T) {
	t.Run("cancel a clean payment", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		require.NoError(t, p.Cancel("wrong party"))
		assert.Equal(t, StatusCancelled, p.Status)
		assert.NotNil(t, p.CancelledAt)
	})

	t.Run("cannot cancel with active allocations", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		require.NoError(t, p.Allocate(d("100")))
		assert.Error(t, p.Cancel("wrong party"))

		require.NoError(t, p.ReverseAllocation(d("100")))
		require.NoError(t, p.Cancel("wrong party"))
	})

	t.Run("requires a reason", func(t *testing.T) {
		p := newTestPayment(t, "5000")
		assert.Error(t, p.Cancel(""))
	})
}

func TestAllocation(t *testing.T) {
	t.Run("reverse flips status once", func(t *testing.T) {
		a, err := NewAllocation(uuid.New(), uuid.New(), d("250"), "")
		require.NoError(t, err)
		assert.True(t, a.IsActive())

		require.NoError(t, a.Reverse())
		assert.False(t, a.IsActive())
		assert.NotNil(t, a.ReversedAt)

		assert.Error(t, a.Reverse())
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewAllocation(uuid.New(), uuid.New(), decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("rejects nil references", func(t *testing.T) {
		_, err := NewAllocation(uuid.Nil, uuid.New(), d("10"), "")
		assert.Error(t, err)
		_, err = NewAllocation(uuid.New(), uuid.Nil, d("10"), "")
		assert.Error(t, err)
	})
}
