package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/quickpos/quickpos/internal/sales"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReceiptPrint renders and spools the receipt of a completed sale.
	TaskReceiptPrint = "receipt:print"
)

// ReceiptPrintPayload carries the sale to print and the terminal it came from.
type ReceiptPrintPayload struct {
	Terminal string     `json:"terminal"`
	Sale     sales.Sale `json:"sale"`
}

// NewReceiptPrintTask constructs an Asynq task.
func NewReceiptPrintTask(payload ReceiptPrintPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceiptPrint, data, asynq.MaxRetry(5)), nil
}
