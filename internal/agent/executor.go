package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bharatbiz/internal/logger"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
)

type handlerFunc func(ctx context.Context, userID string, params map[string]any) Result

// Executor dispatches a classified command to the ledger. It is the last line
// of defense: the caller always gets a structured Result, never an error or a
// panic.
type Executor struct {
	handlers map[string]handlerFunc
	log      zerolog.Logger
}

func NewExecutor(ledger services.LedgerService, reminders services.ReminderService) *Executor {
	e := &Executor{log: logger.WithComponent("executor")}
	e.handlers = map[string]handlerFunc{
		IntentCreateInvoice: e.createInvoice(ledger),
		IntentAddExpense:    e.addExpense(ledger),
		IntentCheckStats:    e.checkStats(ledger),
		IntentSendReminder:  e.sendReminder(reminders),
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, intent, userID string, params map[string]any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Any("panic", r).Str("intent", intent).Msg("command handler panicked")
			result = Result{Success: false, Message: "Task failing due to system error."}
		}
	}()

	handler, ok := e.handlers[intent]
	if !ok {
		return Result{Success: false, Message: fmt.Sprintf("Cannot handle task: %s", intent)}
	}
	return handler(ctx, userID, params)
}

func (e *Executor) createInvoice(ledger services.LedgerService) handlerFunc {
	return func(ctx context.Context, userID string, params map[string]any) Result {
		input := services.CreateInvoiceInput{
			CustomerName:  paramString(params, "customer_name"),
			CustomerPhone: paramString(params, "customer_phone"),
			Amount:        paramFloat(params, "amount"),
			Items:         paramItems(params, "items"),
		}

		invoice, notice, err := ledger.CreateInvoice(ctx, userID, input)
		if err != nil {
			return e.failure("create invoice", err)
		}

		message := fmt.Sprintf("Bill created for %s (₹%.0f)", invoice.CustomerName, invoice.Amount)
		if notice != "" {
			message += " (" + notice + ")"
		}
		return Result{Success: true, Message: message, Data: invoice}
	}
}

func (e *Executor) addExpense(ledger services.LedgerService) handlerFunc {
	return func(ctx context.Context, userID string, params map[string]any) Result {
		expense, err := ledger.AddExpense(ctx, userID,
			paramString(params, "item"),
			paramFloat(params, "amount"),
			paramString(params, "category"))
		if err != nil {
			return e.failure("add expense", err)
		}
		return Result{
			Success: true,
			Message: fmt.Sprintf("Added expense: %s of ₹%.0f", expense.Item, expense.Amount),
			Data:    expense,
		}
	}
}

func (e *Executor) checkStats(ledger services.LedgerService) handlerFunc {
	return func(ctx context.Context, userID string, params map[string]any) Result {
		if paramString(params, "metric") == "udhaar" {
			total, err := ledger.TotalOutstanding(ctx, userID)
			if err != nil {
				return e.failure("check stats", err)
			}
			return Result{Success: true, Message: fmt.Sprintf("Total udhaar market mein ₹%.0f hai.", total)}
		}

		if name := paramString(params, "customer_name"); name != "" {
			customer, err := ledger.CustomerBalance(ctx, userID, name)
			if errors.Is(err, repositories.ErrNotFound) {
				return Result{Success: true, Message: fmt.Sprintf("No record found for %s.", name)}
			}
			if err != nil {
				return e.failure("check stats", err)
			}
			return Result{
				Success: true,
				Message: fmt.Sprintf("%s ka total udhaar ₹%.0f hai. (Total Bills: %d)", customer.Name, customer.PendingAmount, customer.TotalInvoices),
			}
		}

		if paramString(params, "metric") == "expenses" {
			total, err := ledger.TodayExpenses(ctx, userID)
			if err != nil {
				return e.failure("check stats", err)
			}
			return Result{Success: true, Message: fmt.Sprintf("Aaj ka kharcha ₹%.0f hai.", total)}
		}

		revenue, err := ledger.TodayRevenue(ctx, userID)
		if err != nil {
			return e.failure("check stats", err)
		}
		return Result{Success: true, Message: fmt.Sprintf("Aaj ki kamai ab tak ₹%.0f hai.", revenue)}
	}
}

func (e *Executor) sendReminder(reminders services.ReminderService) handlerFunc {
	return func(ctx context.Context, userID string, params map[string]any) Result {
		name := paramString(params, "customer_name")
		if name == "" {
			return Result{Success: false, Message: "Kiska reminder bhejna hai? Customer ka naam batayein."}
		}
		err := reminders.RemindCustomer(ctx, userID, name)
		if errors.Is(err, repositories.ErrNotFound) {
			return Result{Success: true, Message: fmt.Sprintf("No record found for %s.", name)}
		}
		if err != nil {
			return e.failure("send reminder", err)
		}
		return Result{Success: true, Message: fmt.Sprintf("Reminder sent to %s!", name)}
	}
}

func (e *Executor) failure(operation string, err error) Result {
	e.log.Error().Err(err).Str("operation", operation).Msg("command execution failed")
	return Result{Success: false, Message: "Task failing due to system error."}
}

func paramString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func paramFloat(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		fmt.Sscanf(v, "%f", &f)
		return f
	}
	return 0
}

// paramItems tolerates both typed line items and the loose JSON maps the
// classifier produces.
func paramItems(params map[string]any, key string) []models.LineItem {
	raw, ok := params[key].([]any)
	if !ok {
		if typed, ok := params[key].([]models.LineItem); ok {
			return typed
		}
		return nil
	}
	var items []models.LineItem
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := models.LineItem{
			Description: paramString(m, "description"),
			Quantity:    paramFloat(m, "quantity"),
			Price:       paramFloat(m, "price"),
			ProductID:   paramString(m, "product_id"),
		}
		if item.Description == "" {
			item.Description = paramString(m, "desc")
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	return items
}
