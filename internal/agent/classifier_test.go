package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fallbackOnly() Classifier {
	return NewClassifier(nil, "gpt-4o-mini", 0)
}

func TestFallbackClassify_Invoice(t *testing.T) {
	c := fallbackOnly().Classify(context.Background(), "Bill bana do Raju ke naam", nil)

	assert.Equal(t, IntentCreateInvoice, c.Intent)
	assert.True(t, c.NeedsConfirmation)
	assert.Equal(t, "Bill banana hai? Amount aur customer ka naam batayein.", c.Reply)
}

func TestFallbackClassify_Expense(t *testing.T) {
	c := fallbackOnly().Classify(context.Background(), "Chai ka 20", nil)

	assert.Equal(t, IntentAddExpense, c.Intent)
	assert.False(t, c.NeedsConfirmation)
	assert.Equal(t, "Kharcha note kar liya.", c.Reply)
}

func TestFallbackClassify_Reminder(t *testing.T) {
	c := fallbackOnly().Classify(context.Background(), "Raju ko payment yaad dilao", nil)

	assert.Equal(t, IntentSendReminder, c.Intent)
	assert.True(t, c.NeedsConfirmation)
}

func TestFallbackClassify_Stats(t *testing.T) {
	for _, message := range []string{"Aaj ka galla?", "Kitna udhaar baki hai?", "Total sale batao"} {
		c := fallbackOnly().Classify(context.Background(), message, nil)
		assert.Equal(t, IntentCheckStats, c.Intent, "message: %s", message)
		assert.False(t, c.NeedsConfirmation)
	}
}

func TestFallbackClassify_Unknown(t *testing.T) {
	c := fallbackOnly().Classify(context.Background(), "namaste", nil)

	assert.Equal(t, IntentUnknown, c.Intent)
	assert.Equal(t, "Samajh nahi aaya boss.", c.Reply)
	assert.NotNil(t, c.Params)
}

func TestFallbackClassify_CaseInsensitive(t *testing.T) {
	c := fallbackOnly().Classify(context.Background(), "BILL BANA DO", nil)
	assert.Equal(t, IntentCreateInvoice, c.Intent)
}
