package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"bharatbiz/internal/logger"
)

// Classifier maps an utterance (plus optional history) to a structured
// command. Classify never fails: when the model path is unavailable it
// degrades to deterministic keyword matching, because keeping the
// conversation moving matters more than classification accuracy.
type Classifier interface {
	Classify(ctx context.Context, message string, history []Message) Classification
}

const systemPrompt = `You are Bharat Biz-Agent, a smart AI copilot for Indian SMBs (Dukandaars).
You understand "Desi" business context, Hinglish, and specific Indian business terms.

Your logic must handle these specific terms:
- "Udhaar", "Khata", "Baaki" -> Refers to Credit/Pending Payments.
- "Vasooli", "Payment le lo", "Clear kar do" -> Refers to Recording a Payment (Settling Udhaar).
- "Maal", "Stock", "Aaya hai" -> Refers to Inventory Restocking.
- "Kharcha", "Chai pani", "Petrol" -> Refers to Daily Expenses.
- "Kaccha bill", "Note kar lo" -> Quick entry (Invoice or Expense depending on context).

Supported Intents:
1. CREATE_INVOICE
   - Trigger: "Bill bana do", "Invoice for Rahul", "Raju ke naam 500 likho"
   - Params: { customer_name, amount, items: [{description, quantity, price}] }
   - NeedsConfirmation: true

2. ADD_EXPENSE
   - Trigger: "Pehla boni 500", "Chai ka 20", "Market gaya tha 500 lag gaye"
   - Params: { item, amount, category }
   - NeedsConfirmation: false

3. SEND_REMINDER
   - Trigger: "Raju ko deadline yaad dilao", "Payment mangwao", "Vasooli remaining"
   - Params: { customer_name }
   - NeedsConfirmation: true

4. CHECK_STATS
   - Trigger: "Aaj ka galla?", "Kitna udhaar baki hai?", "Total sale batao"
   - Params: { metric: 'revenue' | 'udhaar' | 'expenses' }
   - NeedsConfirmation: false

5. UNKNOWN
   - If no business intent found.

Output Format: JSON only.
{
  "intent": "INTENT_NAME",
  "params": { ... },
  "needsConfirmation": boolean,
  "replyMessage": "A short, natural Hinglish response. Example: 'Thik hai, Raju ka bill bana raha hoon.' or 'Kharcha note kar liya.'"
}`

type openAIClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewClassifier builds the classifier. A nil client means fallback-only,
// which is how the system runs without an API key.
func NewClassifier(client *openai.Client, model string, timeout time.Duration) Classifier {
	return &openAIClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     logger.WithComponent("classifier"),
	}
}

func (c *openAIClassifier) Classify(ctx context.Context, message string, history []Message) Classification {
	if c.client == nil {
		return fallbackClassify(message)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("classification request failed, using keyword fallback")
		return fallbackClassify(message)
	}
	if len(resp.Choices) == 0 {
		c.log.Warn().Msg("empty classification response, using keyword fallback")
		return fallbackClassify(message)
	}

	var classification Classification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &classification); err != nil {
		c.log.Warn().Err(err).Msg("unparseable classification, using keyword fallback")
		return fallbackClassify(message)
	}
	if classification.Intent == "" {
		classification.Intent = IntentUnknown
	}
	if classification.Params == nil {
		classification.Params = map[string]any{}
	}
	return classification
}

// fallbackClassify is the deterministic keyword path. Case-insensitive
// substring tests, checked in order of specificity.
func fallbackClassify(message string) Classification {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "bill", "invoice"):
		return Classification{
			Intent:            IntentCreateInvoice,
			Params:            map[string]any{"amount": float64(0), "customer_name": "Unknown"},
			NeedsConfirmation: true,
			Reply:             "Bill banana hai? Amount aur customer ka naam batayein.",
		}
	case containsAny(lower, "kharcha", "expense", "bought", "liya", "chai", "petrol"):
		return Classification{
			Intent:            IntentAddExpense,
			Params:            map[string]any{"item": "Unknown", "amount": float64(0)},
			NeedsConfirmation: false,
			Reply:             "Kharcha note kar liya.",
		}
	case containsAny(lower, "remind", "yaad dila", "mangwao", "vasooli"):
		return Classification{
			Intent:            IntentSendReminder,
			Params:            map[string]any{},
			NeedsConfirmation: true,
			Reply:             "Reminder bhejna hai? Customer ka naam batayein.",
		}
	case containsAny(lower, "udhaar", "baki", "baaki", "galla", "kamai", "revenue", "sale", "stats"):
		return Classification{
			Intent:            IntentCheckStats,
			Params:            map[string]any{},
			NeedsConfirmation: false,
			Reply:             "Abhi check karta hoon.",
		}
	}

	return Classification{
		Intent:            IntentUnknown,
		Params:            map[string]any{},
		NeedsConfirmation: false,
		Reply:             "Samajh nahi aaya boss.",
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
