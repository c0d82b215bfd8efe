package repositories

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"bharatbiz/internal/models"
)

type CustomerPgRepoTestSuite struct {
	suite.Suite
	mock   pgxmock.PgxPoolIface
	repo   CustomerRepository
	ctx    context.Context
	userID string
}

func (suite *CustomerPgRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewCustomerPgRepo(mock)
	suite.ctx = context.Background()
	suite.userID = "owner-1"
}

func (suite *CustomerPgRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCustomerPgRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerPgRepoTestSuite))
}

func (suite *CustomerPgRepoTestSuite) TestCreate_DuplicatePhone() {
	customer, err := models.NewCustomer(suite.userID, "Raju", "9876500001")
	assert.NoError(suite.T(), err)

	suite.mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(customer.ID, customer.UserID, customer.Name, customer.Phone,
			customer.TotalInvoices, customer.TotalAmount, customer.PendingAmount,
			customer.LastInteraction, customer.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = suite.repo.Create(suite.ctx, customer)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *CustomerPgRepoTestSuite) TestGetByName_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE user_id = \$1 AND name = \$2`).
		WithArgs(suite.userID, "Ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByName(suite.ctx, suite.userID, "Ghost")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CustomerPgRepoTestSuite) TestGetByPhone() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "user_id", "name", "phone", "total_invoices", "total_amount", "pending_amount", "last_interaction", "created_at"}).
		AddRow("c1", suite.userID, "Raju", "9876500001", 3, 1500.0, 400.0, now, now)
	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE user_id = \$1 AND phone = \$2`).
		WithArgs(suite.userID, "9876500001").
		WillReturnRows(rows)

	customer, err := suite.repo.GetByPhone(suite.ctx, suite.userID, "9876500001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Raju", customer.Name)
	assert.Equal(suite.T(), 3, customer.TotalInvoices)
	assert.InDelta(suite.T(), 400, customer.PendingAmount, 0.001)
}

func (suite *CustomerPgRepoTestSuite) TestApplyInvoice_ExistingCustomer() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT id FROM customers WHERE user_id = \$1 AND phone = \$2 FOR UPDATE`).
		WithArgs(suite.userID, "9876500001").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c1"))
	suite.mock.ExpectExec(`UPDATE customers`).
		WithArgs(590.0, pgxmock.AnyArg(), "c1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.ApplyInvoice(suite.ctx, suite.userID, "Raju", "9876500001", 590)
	assert.NoError(suite.T(), err)
}

func (suite *CustomerPgRepoTestSuite) TestApplyInvoice_NewCustomer() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT id FROM customers WHERE user_id = \$1 AND phone = \$2 FOR UPDATE`).
		WithArgs(suite.userID, "9876500002").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(pgxmock.AnyArg(), suite.userID, "Meena", "9876500002", 410.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.ApplyInvoice(suite.ctx, suite.userID, "Meena", "9876500002", 410)
	assert.NoError(suite.T(), err)
}

func (suite *CustomerPgRepoTestSuite) TestApplyInvoice_NoPhoneKeysByName() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT id FROM customers WHERE user_id = \$1 AND name = \$2 FOR UPDATE`).
		WithArgs(suite.userID, "Walk-in").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c9"))
	suite.mock.ExpectExec(`UPDATE customers`).
		WithArgs(100.0, pgxmock.AnyArg(), "c9").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.ApplyInvoice(suite.ctx, suite.userID, "Walk-in", "", 100)
	assert.NoError(suite.T(), err)
}
