package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// TableNotifier reflects order open/close/cancel onto table availability.
type TableNotifier interface {
	SetAvailability(ctx context.Context, tableID int64, available bool) error
}

// TableClient calls the table service. Calls are single-attempt with a
// short timeout; callers treat failure as a logged inconsistency, not
// an error of the order transaction.
type TableClient struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// NewTableClient creates a table service client for the given base URL
// (for example http://localhost:8004/tables).
func NewTableClient(baseURL string, log *logger.Logger) *TableClient {
	return &TableClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 3 * time.Second},
		logger:  log,
	}
}

// SetAvailability updates one table's availability flag.
func (c *TableClient) SetAvailability(ctx context.Context, tableID int64, available bool) error {
	body, err := json.Marshal(models.TableAvailabilityUpdate{IsAvailable: available})
	if err != nil {
		return fmt.Errorf("failed to marshal availability update: %w", err)
	}

	url := fmt.Sprintf("%s/%d/availability", c.baseURL, tableID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build availability request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("table service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("table service returned status %d", resp.StatusCode)
	}

	return nil
}
