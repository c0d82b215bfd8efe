package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	userID       string
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	svc          LedgerService
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	db := docstore.New()
	suite.ctx = context.Background()
	suite.userID = "owner-1"
	suite.invoiceRepo = repositories.NewInvoiceDocRepo(db)
	suite.customerRepo = repositories.NewCustomerDocRepo(db)
	suite.productRepo = repositories.NewProductDocRepo(db)
	expenseRepo := repositories.NewExpenseDocRepo(db)
	suite.svc = NewLedgerService(suite.invoiceRepo, suite.customerRepo, suite.productRepo, expenseRepo, nil)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_DefaultGST() {
	invoice, notice, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Rahul",
		Amount:       500,
	})

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), notice)
	assert.InDelta(suite.T(), 90, invoice.GSTAmount, 0.001)
	assert.InDelta(suite.T(), 590, invoice.TotalWithGST, 0.001)
	assert.Equal(suite.T(), models.InvoiceStatusPending, invoice.Status)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_ExplicitGSTWins() {
	gst := 25.0
	invoice, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Rahul",
		Amount:       500,
		GSTAmount:    &gst,
	})

	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 25, invoice.GSTAmount, 0.001)
	assert.InDelta(suite.T(), 525, invoice.TotalWithGST, 0.001)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_DefaultsCustomerAndItems() {
	invoice, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{Amount: 100})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Walk-in", invoice.CustomerName)
	if assert.Len(suite.T(), invoice.Items, 1) {
		assert.Equal(suite.T(), "Item", invoice.Items[0].Description)
		assert.Equal(suite.T(), float64(1), invoice.Items[0].Quantity)
		assert.Equal(suite.T(), float64(100), invoice.Items[0].Price)
	}
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_NegativeAmountRejected() {
	_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{Amount: -5})
	assert.ErrorIs(suite.T(), err, repositories.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_CustomerCountersAccumulate() {
	zero := 0.0
	_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Raju", CustomerPhone: "9876500001", Amount: 590, GSTAmount: &zero,
	})
	assert.NoError(suite.T(), err)

	_, notice, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Raju", CustomerPhone: "9876500001", Amount: 410, GSTAmount: &zero,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Note: pehle ka ₹590 baaki hai!", notice)

	customer, err := suite.customerRepo.GetByPhone(suite.ctx, suite.userID, "9876500001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, customer.TotalInvoices)
	assert.InDelta(suite.T(), 1000, customer.TotalAmount, 0.001)
	assert.InDelta(suite.T(), 1000, customer.PendingAmount, 0.001)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_NoticeReportsPreExistingBalanceOnly() {
	zero := 0.0
	_, notice, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Meena", Amount: 300, GSTAmount: &zero,
	})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), notice)

	_, notice, err = suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Meena", Amount: 200, GSTAmount: &zero,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Note: pehle ka ₹300 baaki hai!", notice)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_DecrementsStock() {
	product := models.NewProduct(suite.userID, "Rice Bag", "Grocery", 1200, 10, nil)
	assert.NoError(suite.T(), suite.productRepo.Create(suite.ctx, product))

	_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Raju",
		Amount:       2400,
		Items:        []models.LineItem{{Description: "Rice Bag", Quantity: 2, Price: 1200, ProductID: product.ID}},
	})
	assert.NoError(suite.T(), err)

	got, err := suite.productRepo.GetByID(suite.ctx, suite.userID, product.ID)
	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 8, got.Stock, 0.001)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_MissingProductIsTolerated() {
	_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Raju",
		Amount:       100,
		Items:        []models.LineItem{{Description: "Ghost", Quantity: 1, Price: 100, ProductID: "no-such-product"}},
	})
	assert.NoError(suite.T(), err)
}

func (suite *LedgerServiceTestSuite) TestCreateInvoice_ConcurrentSameCustomer() {
	const workers = 25
	zero := 0.0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
				CustomerName: "Busy Shop", CustomerPhone: "9876500099", Amount: 100, GSTAmount: &zero,
			})
			assert.NoError(suite.T(), err)
		}()
	}
	wg.Wait()

	customer, err := suite.customerRepo.GetByPhone(suite.ctx, suite.userID, "9876500099")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), workers, customer.TotalInvoices)
	assert.InDelta(suite.T(), float64(workers*100), customer.PendingAmount, 0.001)
}

func (suite *LedgerServiceTestSuite) TestCustomerBalance_NotFound() {
	_, err := suite.svc.CustomerBalance(suite.ctx, suite.userID, "Nobody")
	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestTotalOutstanding_SumsPendingBalances() {
	zero := 0.0
	for i, name := range []string{"A", "B", "C"} {
		_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
			CustomerName: name, Amount: float64((i + 1) * 100), GSTAmount: &zero,
		})
		assert.NoError(suite.T(), err)
	}

	total, err := suite.svc.TotalOutstanding(suite.ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 600, total, 0.001)
}

func (suite *LedgerServiceTestSuite) TestTodayRevenueAndExpenses() {
	zero := 0.0
	_, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Raju", Amount: 700, GSTAmount: &zero,
	})
	assert.NoError(suite.T(), err)

	_, err = suite.svc.AddExpense(suite.ctx, suite.userID, "Chai", 20, "")
	assert.NoError(suite.T(), err)
	_, err = suite.svc.AddExpense(suite.ctx, suite.userID, "Petrol", 200, "Transport")
	assert.NoError(suite.T(), err)

	revenue, err := suite.svc.TodayRevenue(suite.ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 700, revenue, 0.001)

	expenses, err := suite.svc.TodayExpenses(suite.ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 220, expenses, 0.001)
}

func (suite *LedgerServiceTestSuite) TestAddExpense_Defaults() {
	expense, err := suite.svc.AddExpense(suite.ctx, suite.userID, "", 50, "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "General", expense.Item)
	assert.Equal(suite.T(), "Market", expense.Category)
}

func (suite *LedgerServiceTestSuite) TestUpdateInvoiceStatus() {
	invoice, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Raju", Amount: 100,
	})
	assert.NoError(suite.T(), err)

	assert.NoError(suite.T(), suite.svc.UpdateInvoiceStatus(suite.ctx, suite.userID, invoice.ID, models.InvoiceStatusPaid))

	got, err := suite.invoiceRepo.GetByID(suite.ctx, suite.userID, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, got.Status)
}

func (suite *LedgerServiceTestSuite) TestUpdateInvoiceStatus_Invalid() {
	err := suite.svc.UpdateInvoiceStatus(suite.ctx, suite.userID, "whatever", "shipped")
	assert.ErrorIs(suite.T(), err, repositories.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestUpdateInvoiceStatus_UnknownInvoice() {
	err := suite.svc.UpdateInvoiceStatus(suite.ctx, suite.userID, "missing", models.InvoiceStatusPaid)
	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestDeleteInvoice_Unknown() {
	err := suite.svc.DeleteInvoice(suite.ctx, suite.userID, "missing")
	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestMarkOverdueInvoices() {
	stale := &models.Invoice{
		ID:           fmt.Sprintf("INV-%d-test", time.Now().UnixMilli()),
		UserID:       suite.userID,
		CustomerName: "Raju",
		Amount:       100,
		TotalWithGST: 118,
		Status:       models.InvoiceStatusPending,
		Date:         time.Now().Add(-10 * 24 * time.Hour),
		CreatedAt:    time.Now().Add(-10 * 24 * time.Hour),
	}
	assert.NoError(suite.T(), suite.invoiceRepo.Create(suite.ctx, stale))

	fresh, _, err := suite.svc.CreateInvoice(suite.ctx, suite.userID, CreateInvoiceInput{
		CustomerName: "Meena", Amount: 50,
	})
	assert.NoError(suite.T(), err)

	marked, err := suite.svc.MarkOverdueInvoices(suite.ctx, 7*24*time.Hour)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, marked)

	got, err := suite.invoiceRepo.GetByID(suite.ctx, suite.userID, stale.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusOverdue, got.Status)

	unchanged, err := suite.invoiceRepo.GetByID(suite.ctx, suite.userID, fresh.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPending, unchanged.Status)
}
