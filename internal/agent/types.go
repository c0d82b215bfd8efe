// Package agent is the command pipeline: it classifies a free-text utterance
// into an intent, gates destructive intents behind a confirmation, and
// executes confirmed commands against the ledger.
package agent

// Supported intents.
const (
	IntentCreateInvoice = "CREATE_INVOICE"
	IntentAddExpense    = "ADD_EXPENSE"
	IntentSendReminder  = "SEND_REMINDER"
	IntentCheckStats    = "CHECK_STATS"
	IntentUnknown       = "UNKNOWN"
)

// Classification is the structured form of an utterance.
type Classification struct {
	Intent            string         `json:"intent"`
	Params            map[string]any `json:"params"`
	NeedsConfirmation bool           `json:"needsConfirmation"`
	Reply             string         `json:"replyMessage"`
}

// Message is one turn of conversation history passed to the classifier.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is what command execution hands back to the caller. It is always a
// structured value; executor faults never escape as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ChatResponse is the gate's answer to one inbound utterance.
type ChatResponse struct {
	Intent            string `json:"intent"`
	Message           string `json:"message"`
	NeedsConfirmation bool   `json:"needsConfirmation"`
	Data              any    `json:"data,omitempty"`
}
