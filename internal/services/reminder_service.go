package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"bharatbiz/internal/logger"
	"bharatbiz/internal/repositories"
)

// ReminderSender delivers a payment reminder. Delivery channels (WhatsApp,
// SMS, email) live outside this system; LogSender is the default.
type ReminderSender interface {
	Send(ctx context.Context, customerName, customerPhone, message string) error
}

// LogSender writes reminders to the log instead of a delivery channel.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.WithComponent("reminder-sender")}
}

func (s *LogSender) Send(ctx context.Context, customerName, customerPhone, message string) error {
	s.log.Info().
		Str("customer", customerName).
		Str("phone", customerPhone).
		Str("message", message).
		Msg("reminder dispatched")
	return nil
}

// ReminderService nudges customers about pending payments, either for one
// invoice or as a sweep over everything overdue.
type ReminderService interface {
	RemindInvoice(ctx context.Context, userID, invoiceID string) error
	RemindCustomer(ctx context.Context, userID, customerName string) error
	SweepOverdue(ctx context.Context) (int, error)
}

type reminderService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	sender       ReminderSender
	log          zerolog.Logger
}

func NewReminderService(invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository, sender ReminderSender) ReminderService {
	return &reminderService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		sender:       sender,
		log:          logger.WithComponent("reminders"),
	}
}

func (s *reminderService) RemindInvoice(ctx context.Context, userID, invoiceID string) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Namaste %s, your payment of ₹%.0f for invoice %s is pending. Kripya jald bhugtan karein.",
		invoice.CustomerName, invoice.TotalWithGST, invoice.ID)
	return s.sender.Send(ctx, invoice.CustomerName, invoice.CustomerPhone, message)
}

func (s *reminderService) RemindCustomer(ctx context.Context, userID, customerName string) error {
	customer, err := s.customerRepo.GetByName(ctx, userID, customerName)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Namaste %s, aapka ₹%.0f baaki hai. Kripya jald bhugtan karein.",
		customer.Name, customer.PendingAmount)
	return s.sender.Send(ctx, customer.Name, customer.Phone, message)
}

func (s *reminderService) SweepOverdue(ctx context.Context) (int, error) {
	invoices, err := s.invoiceRepo.ListOverdue(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, invoice := range invoices {
		message := fmt.Sprintf("Namaste %s, your payment of ₹%.0f for invoice %s is overdue.",
			invoice.CustomerName, invoice.TotalWithGST, invoice.ID)
		if err := s.sender.Send(ctx, invoice.CustomerName, invoice.CustomerPhone, message); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", invoice.ID).Msg("reminder send failed")
			continue
		}
		sent++
	}
	return sent, nil
}
