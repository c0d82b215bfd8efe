package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateInvoice(ctx context.Context, userID string, input services.CreateInvoiceInput) (*models.Invoice, string, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Invoice), args.String(1), args.Error(2)
}

func (m *MockLedgerService) AddExpense(ctx context.Context, userID, item string, amount float64, category string) (*models.Expense, error) {
	args := m.Called(ctx, userID, item, amount, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockLedgerService) CustomerBalance(ctx context.Context, userID, name string) (*models.Customer, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockLedgerService) TotalOutstanding(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedgerService) TodayRevenue(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedgerService) TodayExpenses(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedgerService) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) error {
	args := m.Called(ctx, userID, invoiceID, status)
	return args.Error(0)
}

func (m *MockLedgerService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	args := m.Called(ctx, userID, invoiceID)
	return args.Error(0)
}

func (m *MockLedgerService) MarkOverdueInvoices(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) RemindInvoice(ctx context.Context, userID, invoiceID string) error {
	args := m.Called(ctx, userID, invoiceID)
	return args.Error(0)
}

func (m *MockReminderService) RemindCustomer(ctx context.Context, userID, customerName string) error {
	args := m.Called(ctx, userID, customerName)
	return args.Error(0)
}

func (m *MockReminderService) SweepOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestExecutor_UnknownIntent(t *testing.T) {
	executor := NewExecutor(new(MockLedgerService), new(MockReminderService))

	result := executor.Execute(context.Background(), "DANCE", "u1", nil)

	assert.False(t, result.Success)
	assert.Equal(t, "Cannot handle task: DANCE", result.Message)
}

func TestExecutor_CreateInvoice(t *testing.T) {
	ledger := new(MockLedgerService)
	invoice := &models.Invoice{ID: "INV-1", CustomerName: "Raju", Amount: 500}
	ledger.On("CreateInvoice", mock.Anything, "u1", mock.Anything).Return(invoice, "", nil)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCreateInvoice, "u1", map[string]any{
		"customer_name": "Raju",
		"amount":        float64(500),
	})

	assert.True(t, result.Success)
	assert.Equal(t, "Bill created for Raju (₹500)", result.Message)
	assert.Equal(t, invoice, result.Data)
	ledger.AssertExpectations(t)
}

func TestExecutor_CreateInvoice_AppendsCarriedBalanceNotice(t *testing.T) {
	ledger := new(MockLedgerService)
	invoice := &models.Invoice{ID: "INV-1", CustomerName: "Raju", Amount: 500}
	ledger.On("CreateInvoice", mock.Anything, "u1", mock.Anything).
		Return(invoice, "Note: pehle ka ₹200 baaki hai!", nil)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCreateInvoice, "u1", map[string]any{"amount": float64(500)})

	assert.Equal(t, "Bill created for Raju (₹500) (Note: pehle ka ₹200 baaki hai!)", result.Message)
}

func TestExecutor_CreateInvoice_ParsesLooseItems(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("CreateInvoice", mock.Anything, "u1", mock.MatchedBy(func(input services.CreateInvoiceInput) bool {
		return len(input.Items) == 1 &&
			input.Items[0].Description == "Chawal" &&
			input.Items[0].Quantity == 2 &&
			input.Items[0].Price == 250
	})).Return(&models.Invoice{CustomerName: "Raju"}, "", nil)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCreateInvoice, "u1", map[string]any{
		"items": []any{
			map[string]any{"description": "Chawal", "quantity": float64(2), "price": float64(250)},
		},
	})

	assert.True(t, result.Success)
	ledger.AssertExpectations(t)
}

func TestExecutor_AddExpense(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("AddExpense", mock.Anything, "u1", "Chai", float64(20), "").
		Return(&models.Expense{Item: "Chai", Amount: 20}, nil)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentAddExpense, "u1", map[string]any{
		"item":   "Chai",
		"amount": float64(20),
	})

	assert.True(t, result.Success)
	assert.Equal(t, "Added expense: Chai of ₹20", result.Message)
}

func TestExecutor_CheckStats_Revenue(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("TodayRevenue", mock.Anything, "u1").Return(float64(1500), nil)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCheckStats, "u1", map[string]any{})

	assert.True(t, result.Success)
	assert.Equal(t, "Aaj ki kamai ab tak ₹1500 hai.", result.Message)
}

func TestExecutor_CheckStats_Udhaar(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("TotalOutstanding", mock.Anything, "u1").Return(float64(3200), nil)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCheckStats, "u1", map[string]any{"metric": "udhaar"})

	assert.Equal(t, "Total udhaar market mein ₹3200 hai.", result.Message)
}

func TestExecutor_CheckStats_CustomerNotFound(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("CustomerBalance", mock.Anything, "u1", "Ghost").Return(nil, repositories.ErrNotFound)
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCheckStats, "u1", map[string]any{"customer_name": "Ghost"})

	assert.True(t, result.Success)
	assert.Equal(t, "No record found for Ghost.", result.Message)
}

func TestExecutor_SendReminder_RequiresName(t *testing.T) {
	executor := NewExecutor(new(MockLedgerService), new(MockReminderService))

	result := executor.Execute(context.Background(), IntentSendReminder, "u1", map[string]any{})

	assert.False(t, result.Success)
	assert.Equal(t, "Kiska reminder bhejna hai? Customer ka naam batayein.", result.Message)
}

func TestExecutor_SendReminder(t *testing.T) {
	reminders := new(MockReminderService)
	reminders.On("RemindCustomer", mock.Anything, "u1", "Raju").Return(nil)
	executor := NewExecutor(new(MockLedgerService), reminders)

	result := executor.Execute(context.Background(), IntentSendReminder, "u1", map[string]any{"customer_name": "Raju"})

	assert.True(t, result.Success)
	assert.Equal(t, "Reminder sent to Raju!", result.Message)
	reminders.AssertExpectations(t)
}

func TestExecutor_ServiceErrorIsMasked(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("AddExpense", mock.Anything, "u1", "", float64(0), "").
		Return(nil, errors.New("connection refused"))
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentAddExpense, "u1", map[string]any{})

	assert.False(t, result.Success)
	assert.Equal(t, "Task failing due to system error.", result.Message)
}

func TestExecutor_RecoversFromPanic(t *testing.T) {
	ledger := new(MockLedgerService)
	ledger.On("TodayRevenue", mock.Anything, "u1").Panic("boom")
	executor := NewExecutor(ledger, new(MockReminderService))

	result := executor.Execute(context.Background(), IntentCheckStats, "u1", map[string]any{})

	assert.False(t, result.Success)
	assert.Equal(t, "Task failing due to system error.", result.Message)
}
