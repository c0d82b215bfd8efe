package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"bharatbiz/internal/logger"
	"bharatbiz/internal/models"
)

// ReceiptData is the structured extraction from a bill photo or UPI
// screenshot.
type ReceiptData struct {
	Type         string            `json:"type"` // "bill" or "upi"
	TotalAmount  float64           `json:"totalAmount"`
	Date         string            `json:"date"`
	Items        []models.LineItem `json:"items"`
	CustomerName string            `json:"customer_name"`
	VendorName   string            `json:"vendor_name"`
}

// ReceiptService stores receipt images and extracts ledger entries from them.
type ReceiptService interface {
	// Store uploads a receipt image and returns a presigned URL for it.
	Store(ctx context.Context, userID, contentType string, reader io.Reader, size int64) (string, error)
	// Analyze extracts structured data from an image (URL or data URI). With
	// no vision client configured it returns a fixed demo extraction, the
	// same degradation the rest of the pipeline uses.
	Analyze(ctx context.Context, imageURL string) (*ReceiptData, error)
}

type receiptService struct {
	storage ObjectStorage
	bucket  string
	client  *openai.Client
	model   string
	log     zerolog.Logger
}

// NewReceiptService wires receipt storage and OCR. client may be nil.
func NewReceiptService(storage ObjectStorage, bucket string, client *openai.Client, model string) ReceiptService {
	return &receiptService{
		storage: storage,
		bucket:  bucket,
		client:  client,
		model:   model,
		log:     logger.WithComponent("receipts"),
	}
}

func (s *receiptService) Store(ctx context.Context, userID, contentType string, reader io.Reader, size int64) (string, error) {
	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	objectName := fmt.Sprintf("%s/%s", userID, uuid.NewString())
	if err := s.storage.Upload(ctx, s.bucket, objectName, contentType, reader, size); err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}
	return s.storage.GetPresignedURL(s.bucket, objectName, time.Hour)
}

const receiptPrompt = `You are an expert OCR agent. Extract data from this business bill or UPI screenshot into JSON: { "type": "bill"|"upi", "totalAmount": number, "date": string, "items": [{ "description": string, "quantity": number, "price": number }], "customer_name": string, "vendor_name": string }`

func (s *receiptService) Analyze(ctx context.Context, imageURL string) (*ReceiptData, error) {
	if s.client == nil {
		s.log.Warn().Msg("no OCR client configured, returning demo extraction")
		return mockReceipt(), nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: receiptPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
				},
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return nil, fmt.Errorf("receipt analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("receipt analysis: empty response")
	}

	var data ReceiptData
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Choices[0].Message.Content)), &data); err != nil {
		return nil, fmt.Errorf("parse receipt extraction: %w", err)
	}
	return &data, nil
}

func mockReceipt() *ReceiptData {
	return &ReceiptData{
		Type:         "bill",
		TotalAmount:  1250,
		Date:         time.Now().Format(time.RFC3339),
		CustomerName: "Cash Customer",
		VendorName:   "Wholesale Market",
		Items: []models.LineItem{
			{Description: "Potatoes (50kg)", Quantity: 50, Price: 25},
		},
	}
}

// stripJSONFences drops the markdown code fences some model replies wrap
// around JSON payloads.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
