package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebt_ApplyPayment(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("full payoff flips unpaid to paid", func(t *testing.T) {
		d := domain.Debt{DebtAmount: dec("1000"), PaidAmount: dec("0"), Status: domain.DebtUnpaid}
		require.NoError(t, d.ApplyPayment(dec("1000"), now))
		assert.Equal(t, domain.DebtPaid, d.Status)
		assert.True(t, d.Remaining().IsZero())
		require.NotNil(t, d.PaymentDate)
		assert.Equal(t, now, *d.PaymentDate)
	})

	t.Run("partial payment", func(t *testing.T) {
		d := domain.Debt{DebtAmount: dec("1000"), PaidAmount: dec("0"), Status: domain.DebtUnpaid}
		require.NoError(t, d.ApplyPayment(dec("250"), now))
		assert.Equal(t, domain.DebtPartial, d.Status)
		assert.True(t, dec("750").Equal(d.Remaining()))
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		d := domain.Debt{DebtAmount: dec("1000"), PaidAmount: dec("900"), Status: domain.DebtPartial}
		assert.Error(t, d.ApplyPayment(dec("150"), now))
		assert.True(t, dec("900").Equal(d.PaidAmount))
		assert.Nil(t, d.PaymentDate)
	})
}

func TestDebt_ResyncKeepsRecordedPayments(t *testing.T) {
	d := domain.Debt{DebtAmount: dec("1000"), PaidAmount: dec("400"), Status: domain.DebtPartial}

	d.Resync(dec("1500"), dec("0"))
	assert.True(t, dec("1500").Equal(d.DebtAmount))
	assert.True(t, dec("400").Equal(d.PaidAmount))
	assert.Equal(t, domain.DebtPartial, d.Status)

	d.Resync(dec("1500"), dec("1500"))
	assert.Equal(t, domain.DebtPaid, d.Status)
}

func TestDebtStatusFor(t *testing.T) {
	assert.Equal(t, domain.DebtUnpaid, domain.DebtStatusFor(dec("10"), dec("0")))
	assert.Equal(t, domain.DebtPartial, domain.DebtStatusFor(dec("10"), dec("3")))
	assert.Equal(t, domain.DebtPaid, domain.DebtStatusFor(dec("10"), dec("10")))
	assert.Equal(t, domain.DebtPaid, domain.DebtStatusFor(dec("10"), dec("12")))
}

func TestExpense_DerivedDebt(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	actor := domain.Actor{UserID: "u-1", Name: "amina", Role: domain.RoleUser}

	e := domain.Expense{
		ExpenseID:     "exp-1",
		Description:   "aluminium profiles",
		Quantity:      4,
		UnitPrice:     dec("250"),
		PaymentStatus: domain.PaymentUnpaid,
		PurchaseDate:  now.AddDate(0, 0, -2),
	}
	require.NoError(t, e.Recalculate())
	assert.True(t, dec("1000").Equal(e.TotalAmount))

	d := e.DerivedDebt(actor, now)
	assert.Equal(t, "supplier", d.Name)
	assert.True(t, dec("1000").Equal(d.DebtAmount))
	assert.True(t, d.PaidAmount.IsZero())
	assert.True(t, dec("1000").Equal(d.Remaining()))
	assert.Equal(t, domain.DebtUnpaid, d.Status)
	require.NotNil(t, d.Source)
	assert.Equal(t, domain.EntityRef{Type: domain.EntityExpense, ID: "exp-1"}, *d.Source)
	assert.Equal(t, "amina", d.RecordedBy)
	assert.Equal(t, e.PurchaseDate, d.StartDate)
}

func TestExpense_Recalculate(t *testing.T) {
	e := domain.Expense{Quantity: 2, UnitPrice: dec("10"), PaidAmount: dec("25"), PaymentStatus: domain.PaymentPartial}
	assert.Error(t, e.Recalculate(), "paid above total")

	e = domain.Expense{Quantity: 0, UnitPrice: dec("10"), PaymentStatus: domain.PaymentPaid}
	assert.Error(t, e.Recalculate(), "zero quantity")

	e = domain.Expense{Quantity: 3, UnitPrice: dec("10"), PaymentStatus: domain.PaymentPaid}
	require.NoError(t, e.Recalculate())
	assert.True(t, dec("30").Equal(e.PaidAmount))
	assert.False(t, e.PaymentStatus.CreatesDebt())
}

func TestTransport_DerivedDebt(t *testing.T) {
	now := time.Now()
	tr := domain.Transport{
		TransportID:     "tr-1",
		Name:            "Karim transport",
		TransportAmount: dec("800"),
		PaidAmount:      dec("300"),
		PaymentStatus:   domain.PaymentPartial,
		Purpose:         "delivery",
		Destination:     "Oran",
		TransportDate:   now,
	}
	require.NoError(t, tr.Validate())
	d := tr.DerivedDebt(domain.SystemActor(), now)
	assert.Equal(t, "Karim transport", d.Name)
	assert.Equal(t, "delivery - Oran", d.Description)
	assert.Equal(t, domain.DebtPartial, d.Status)
	assert.True(t, dec("500").Equal(d.Remaining()))
}
