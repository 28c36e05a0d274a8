package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// Pricer computes order totals from menu prices.
type Pricer interface {
	PriceOf(ctx context.Context, itemID, staffID int64) decimal.Decimal
	TotalOf(ctx context.Context, items []models.OrderItemCreate, staffID int64) decimal.Decimal
}

// MenuClient looks up unit prices from the menu service. Any lookup
// failure degrades to a zero price so order creation is never blocked
// by a menu outage; the under-billing risk is accepted.
type MenuClient struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// NewMenuClient creates a menu price client for the given base URL
// (for example http://localhost:8002/items).
func NewMenuClient(baseURL string, log *logger.Logger) *MenuClient {
	return &MenuClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 3 * time.Second},
		logger:  log,
	}
}

// PriceOf returns the unit price of a menu item, or zero on any failure.
func (c *MenuClient) PriceOf(ctx context.Context, itemID, staffID int64) decimal.Decimal {
	url := fmt.Sprintf("%s/%d", c.baseURL, itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logMiss(itemID, err)
		return decimal.Zero
	}
	req.Header.Set("X-Staff-Id", strconv.FormatInt(staffID, 10))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logMiss(itemID, err)
		return decimal.Zero
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logMiss(itemID, fmt.Errorf("menu service returned status %d", resp.StatusCode))
		return decimal.Zero
	}

	var item models.MenuItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		c.logMiss(itemID, err)
		return decimal.Zero
	}

	return item.Price
}

// TotalOf sums unit price times quantity over the given items. An empty
// list totals zero. Quantities below 1 are a precondition violation
// caught by request validation, not here.
func (c *MenuClient) TotalOf(ctx context.Context, items []models.OrderItemCreate, staffID int64) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		price := c.PriceOf(ctx, item.ItemID, staffID)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *MenuClient) logMiss(itemID int64, err error) {
	c.logger.Error("price_lookup_failed", "Menu price lookup failed, using zero", "", err, map[string]interface{}{
		"item_id": itemID,
	})
}
