package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bharatbiz/internal/caching"
	"bharatbiz/internal/logger"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
)

// CreateInvoiceInput carries the fields a classified command or API request
// supplies for a new invoice. GSTAmount nil means "compute the default".
type CreateInvoiceInput struct {
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Items         []models.LineItem `json:"items"`
	Amount        float64           `json:"amount"`
	GSTAmount     *float64          `json:"gst_amount"`
}

// LedgerService applies commands to the ledger while keeping customer
// balances and invoice totals consistent.
type LedgerService interface {
	// CreateInvoice records a sale and moves the customer's counters. The
	// returned notice is non-empty when the customer already carried a
	// positive pending balance before this invoice.
	CreateInvoice(ctx context.Context, userID string, input CreateInvoiceInput) (*models.Invoice, string, error)
	AddExpense(ctx context.Context, userID, item string, amount float64, category string) (*models.Expense, error)
	CustomerBalance(ctx context.Context, userID, name string) (*models.Customer, error)
	TotalOutstanding(ctx context.Context, userID string) (float64, error)
	TodayRevenue(ctx context.Context, userID string) (float64, error)
	TodayExpenses(ctx context.Context, userID string) (float64, error)
	UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) error
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error
	MarkOverdueInvoices(ctx context.Context, olderThan time.Duration) (int, error)
}

const (
	revenueCacheTTL  = 30 * time.Second
	customerCacheTTL = time.Minute
)

type ledgerService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	expenseRepo  repositories.ExpenseRepository
	cacheSvc     caching.CacheService
	log          zerolog.Logger
}

// NewLedgerService creates the ledger service. cacheSvc may be nil; every
// cache path degrades to the repository.
func NewLedgerService(
	invoiceRepo repositories.InvoiceRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	expenseRepo repositories.ExpenseRepository,
	cacheSvc caching.CacheService,
) LedgerService {
	return &ledgerService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		expenseRepo:  expenseRepo,
		cacheSvc:     cacheSvc,
		log:          logger.WithComponent("ledger"),
	}
}

func (s *ledgerService) CreateInvoice(ctx context.Context, userID string, input CreateInvoiceInput) (*models.Invoice, string, error) {
	if input.Amount < 0 {
		return nil, "", fmt.Errorf("%w: amount cannot be negative", repositories.ErrValidation)
	}

	name := input.CustomerName
	if name == "" {
		name = "Walk-in"
	}
	items := input.Items
	if len(items) == 0 {
		items = []models.LineItem{{Description: "Item", Quantity: 1, Price: input.Amount}}
	}

	gst := input.Amount * models.DefaultGSTRate
	if input.GSTAmount != nil {
		gst = *input.GSTAmount
	}

	now := time.Now()
	invoice := &models.Invoice{
		ID:            newInvoiceID(now),
		UserID:        userID,
		CustomerName:  name,
		CustomerPhone: input.CustomerPhone,
		Items:         items,
		Amount:        input.Amount,
		GSTAmount:     gst,
		TotalWithGST:  input.Amount + gst,
		Status:        models.InvoiceStatusPending,
		Date:          now,
		CreatedAt:     now,
	}

	// Best effort: a line item naming a missing product is not an error.
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		err := s.productRepo.DecrementStock(ctx, userID, item.ProductID, item.Quantity)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			s.log.Warn().Err(err).Str("product_id", item.ProductID).Msg("stock decrement failed")
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, "", fmt.Errorf("create invoice: %w", err)
	}

	// The carried-balance notice reports what was owed before this invoice,
	// so the customer is read before the counters move.
	var notice string
	if existing, err := s.lookupCustomer(ctx, userID, name, input.CustomerPhone); err == nil && existing.PendingAmount > 0 {
		notice = fmt.Sprintf("Note: pehle ka ₹%.0f baaki hai!", existing.PendingAmount)
	}

	if err := s.customerRepo.ApplyInvoice(ctx, userID, name, input.CustomerPhone, invoice.TotalWithGST); err != nil {
		return nil, "", fmt.Errorf("apply invoice to customer: %w", err)
	}

	s.invalidateCaches(ctx, userID, name)

	s.log.Info().
		Str("user_id", userID).
		Str("invoice_id", invoice.ID).
		Str("customer", name).
		Float64("total_with_gst", invoice.TotalWithGST).
		Msg("invoice created")

	return invoice, notice, nil
}

func (s *ledgerService) AddExpense(ctx context.Context, userID, item string, amount float64, category string) (*models.Expense, error) {
	if item == "" {
		item = "General"
	}
	if category == "" {
		category = "Market"
	}
	expense := &models.Expense{
		ID:       uuid.NewString(),
		UserID:   userID,
		Item:     item,
		Amount:   amount,
		Category: category,
		Date:     time.Now(),
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}
	return expense, nil
}

func (s *ledgerService) CustomerBalance(ctx context.Context, userID, name string) (*models.Customer, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetCustomer(ctx, userID, name); err == nil && cached != nil {
			return cached, nil
		}
	}

	customer, err := s.customerRepo.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetCustomer(ctx, customer, customerCacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("customer cache write failed")
		}
	}
	return customer, nil
}

func (s *ledgerService) TotalOutstanding(ctx context.Context, userID string) (float64, error) {
	customers, err := s.customerRepo.ListWithPending(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, c := range customers {
		total += c.PendingAmount
	}
	return total, nil
}

func (s *ledgerService) TodayRevenue(ctx context.Context, userID string) (float64, error) {
	if s.cacheSvc != nil {
		if revenue, hit, err := s.cacheSvc.GetTodayRevenue(ctx, userID); err == nil && hit {
			return revenue, nil
		}
	}

	invoices, err := s.invoiceRepo.ListByDateFrom(ctx, userID, startOfDay(time.Now()))
	if err != nil {
		return 0, err
	}
	var revenue float64
	for _, inv := range invoices {
		revenue += inv.Amount
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetTodayRevenue(ctx, userID, revenue, revenueCacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("revenue cache write failed")
		}
	}
	return revenue, nil
}

func (s *ledgerService) TodayExpenses(ctx context.Context, userID string) (float64, error) {
	return s.expenseRepo.SumByDateFrom(ctx, userID, startOfDay(time.Now()))
}

func (s *ledgerService) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) error {
	if !models.ValidInvoiceStatus(status) {
		return fmt.Errorf("%w: invalid invoice status %q", repositories.ErrValidation, status)
	}
	return s.invoiceRepo.UpdateStatus(ctx, userID, invoiceID, status)
}

func (s *ledgerService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	return s.invoiceRepo.Delete(ctx, userID, invoiceID)
}

func (s *ledgerService) MarkOverdueInvoices(ctx context.Context, olderThan time.Duration) (int, error) {
	marked, err := s.invoiceRepo.MarkOverdue(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		s.log.Info().Int("marked", marked).Msg("invoices moved to overdue")
	}
	return marked, nil
}

func (s *ledgerService) lookupCustomer(ctx context.Context, userID, name, phone string) (*models.Customer, error) {
	if phone != "" {
		return s.customerRepo.GetByPhone(ctx, userID, phone)
	}
	return s.customerRepo.GetByName(ctx, userID, name)
}

func (s *ledgerService) invalidateCaches(ctx context.Context, userID, customerName string) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteCustomer(ctx, userID, customerName); err != nil {
		s.log.Debug().Err(err).Msg("customer cache invalidation failed")
	}
	if err := s.cacheSvc.InvalidateTodayRevenue(ctx, userID); err != nil {
		s.log.Debug().Err(err).Msg("revenue cache invalidation failed")
	}
	if err := s.cacheSvc.InvalidateAnalytics(ctx, userID); err != nil {
		s.log.Debug().Err(err).Msg("analytics cache invalidation failed")
	}
}

func newInvoiceID(now time.Time) string {
	// Timestamped for readability; the uuid suffix keeps concurrent invoices
	// from colliding within one millisecond.
	return fmt.Sprintf("INV-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
