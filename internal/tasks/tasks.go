package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/pasarly/backend-pasar/internal/document"
)

// Task type names registered with the worker.
const (
	TypeCartSweep      = "cart:sweep"
	TypeDocumentIssued = "document:issued"
)

// DocumentIssuedPayload carries the audit trail fields for an issued document.
type DocumentIssuedPayload struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Kind   string `json:"kind"`
	Number string `json:"number"`
	Total  string `json:"total"`
}

// NewCartSweepTask builds the periodic cart sweep task.
func NewCartSweepTask() *asynq.Task {
	return asynq.NewTask(TypeCartSweep, nil, asynq.MaxRetry(1))
}

// NewDocumentIssuedTask builds the issuance audit task for a document.
func NewDocumentIssuedTask(doc document.Document) (*asynq.Task, error) {
	payload, err := json.Marshal(DocumentIssuedPayload{
		ID:     doc.ID,
		UserID: doc.UserID,
		Kind:   string(doc.Kind),
		Number: doc.Number,
		Total:  doc.Totals.Total.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return asynq.NewTask(TypeDocumentIssued, payload, asynq.MaxRetry(5)), nil
}

// Client enqueues background tasks. It implements document.Enqueuer.
type Client struct {
	A *asynq.Client
}

// DocumentIssued queues the issuance audit task.
func (c Client) DocumentIssued(ctx context.Context, doc document.Document) error {
	if c.A == nil {
		return nil
	}
	task, err := NewDocumentIssuedTask(doc)
	if err != nil {
		return err
	}
	_, err = c.A.EnqueueContext(ctx, task)
	return err
}
