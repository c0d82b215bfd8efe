package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bharatbiz/internal/logger"
)

// affirmations are the case-insensitive tokens that confirm a held command.
var affirmations = map[string]bool{
	"yes":     true,
	"y":       true,
	"haan":    true,
	"han":     true,
	"ha":      true,
	"ok":      true,
	"okay":    true,
	"confirm": true,
	"sure":    true,
}

// pendingCommand is a classified command held until the user affirms or
// rejects it. It lives only in process memory.
type pendingCommand struct {
	Intent    string
	Params    map[string]any
	UserID    string
	CreatedAt time.Time
}

// Gate is the per-conversation confirmation state machine: Idle when no
// command is held, AwaitingConfirmation when one is. A pending command that
// is never answered expires after the configured TTL; expiry is enforced
// lazily when the conversation's next message arrives.
type Gate struct {
	classifier Classifier
	executor   *Executor
	ttl        time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCommand
	log     zerolog.Logger
}

func NewGate(classifier Classifier, executor *Executor, ttl time.Duration) *Gate {
	return &Gate{
		classifier: classifier,
		executor:   executor,
		ttl:        ttl,
		pending:    make(map[string]*pendingCommand),
		log:        logger.WithComponent("gate"),
	}
}

// HandleMessage drives one utterance through the pipeline. conversationID
// scopes the gate state; an empty one falls back to the user ID.
func (g *Gate) HandleMessage(ctx context.Context, conversationID, userID, message string, history []Message) ChatResponse {
	if conversationID == "" {
		conversationID = userID
	}

	if held, ok := g.takePending(conversationID); ok {
		if isAffirmative(message) {
			result := g.executor.Execute(ctx, held.Intent, held.UserID, held.Params)
			return ChatResponse{Intent: held.Intent, Message: result.Message, Data: result.Data}
		}
		g.log.Debug().Str("intent", held.Intent).Msg("pending command cancelled")
		return ChatResponse{Intent: held.Intent, Message: "Thik hai, cancel kar diya."}
	}

	// Classification happens outside the gate lock; it may call the network.
	classification := g.classifier.Classify(ctx, message, history)

	if classification.NeedsConfirmation {
		g.hold(conversationID, &pendingCommand{
			Intent:    classification.Intent,
			Params:    classification.Params,
			UserID:    userID,
			CreatedAt: time.Now(),
		})
		return ChatResponse{
			Intent:            classification.Intent,
			Message:           classification.Reply + " (Reply 'Yes' to confirm)",
			NeedsConfirmation: true,
		}
	}

	if classification.Intent == IntentUnknown {
		return ChatResponse{Intent: IntentUnknown, Message: classification.Reply}
	}

	result := g.executor.Execute(ctx, classification.Intent, userID, classification.Params)
	message = result.Message
	if message == "" {
		message = classification.Reply
	}
	return ChatResponse{Intent: classification.Intent, Message: message, Data: result.Data}
}

// takePending removes and returns the conversation's held command. Expired
// commands are dropped, so the caller sees the gate as Idle.
func (g *Gate) takePending(conversationID string) (*pendingCommand, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	held, ok := g.pending[conversationID]
	if !ok {
		return nil, false
	}
	delete(g.pending, conversationID)
	if time.Since(held.CreatedAt) > g.ttl {
		g.log.Debug().Str("intent", held.Intent).Msg("pending command expired")
		return nil, false
	}
	return held, true
}

func (g *Gate) hold(conversationID string, cmd *pendingCommand) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending[conversationID] = cmd
}

func isAffirmative(message string) bool {
	return affirmations[strings.ToLower(strings.TrimSpace(message))]
}
