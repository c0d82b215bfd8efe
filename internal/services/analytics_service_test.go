package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	userID      string
	invoiceRepo repositories.InvoiceRepository
	svc         *AnalyticsService
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	db := docstore.New()
	suite.ctx = context.Background()
	suite.userID = "owner-1"
	suite.invoiceRepo = repositories.NewInvoiceDocRepo(db)
	suite.svc = NewAnalyticsService(suite.invoiceRepo, nil)
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (suite *AnalyticsServiceTestSuite) addInvoice(id string, amount float64, status string, date time.Time) {
	err := suite.invoiceRepo.Create(suite.ctx, &models.Invoice{
		ID:           id,
		UserID:       suite.userID,
		CustomerName: "Rahul",
		Amount:       amount,
		GSTAmount:    amount * models.DefaultGSTRate,
		TotalWithGST: amount * (1 + models.DefaultGSTRate),
		Status:       status,
		Date:         date,
		CreatedAt:    date,
	})
	assert.NoError(suite.T(), err)
}

func (suite *AnalyticsServiceTestSuite) TestCalculate_Empty() {
	data, err := suite.svc.Calculate(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Zero(suite.T(), data.TotalRevenue)
	assert.Empty(suite.T(), data.RevenueByMonth)
	assert.Zero(suite.T(), data.StatusBreakdown.Paid)
}

func (suite *AnalyticsServiceTestSuite) TestCalculate_RevenueByMonthAndTotal() {
	jan := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 5, 12, 0, 0, 0, time.UTC)
	suite.addInvoice("INV-1", 500, models.InvoiceStatusPaid, jan)
	suite.addInvoice("INV-2", 300, models.InvoiceStatusPending, jan)
	suite.addInvoice("INV-3", 200, models.InvoiceStatusOverdue, feb)

	data, err := suite.svc.Calculate(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 1000, data.TotalRevenue, 0.001)
	assert.InDelta(suite.T(), 800, data.RevenueByMonth["Jan 2026"], 0.001)
	assert.InDelta(suite.T(), 200, data.RevenueByMonth["Feb 2026"], 0.001)
}

func (suite *AnalyticsServiceTestSuite) TestCalculate_StatusBreakdown() {
	now := time.Now()
	suite.addInvoice("INV-1", 100, models.InvoiceStatusPaid, now)
	suite.addInvoice("INV-2", 100, models.InvoiceStatusPaid, now)
	suite.addInvoice("INV-3", 100, models.InvoiceStatusPending, now)
	suite.addInvoice("INV-4", 100, models.InvoiceStatusOverdue, now)

	data, err := suite.svc.Calculate(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, data.StatusBreakdown.Paid)
	assert.Equal(suite.T(), 1, data.StatusBreakdown.Pending)
	assert.Equal(suite.T(), 1, data.StatusBreakdown.Overdue)
}

func (suite *AnalyticsServiceTestSuite) TestCalculate_ScopedToOwner() {
	now := time.Now()
	suite.addInvoice("INV-1", 100, models.InvoiceStatusPaid, now)
	err := suite.invoiceRepo.Create(suite.ctx, &models.Invoice{
		ID:     "INV-other",
		UserID: "owner-2",
		Amount: 900,
		Status: models.InvoiceStatusPaid,
		Date:   now,
	})
	assert.NoError(suite.T(), err)

	data, err := suite.svc.Calculate(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 100, data.TotalRevenue, 0.001)
	assert.Equal(suite.T(), 1, data.StatusBreakdown.Paid)
}
