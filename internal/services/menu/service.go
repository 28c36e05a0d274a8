package menu

import (
	"context"
	"fmt"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// DefaultListLimit caps menu listings when no limit is given.
const DefaultListLimit = 100

// Service implements menu business logic.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new menu service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// CreateItem adds a dish to the menu. New items default to available.
func (s *Service) CreateItem(ctx context.Context, req *models.CreateMenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	item, err := s.repo.CreateItem(ctx, req.Name, req.Price, isAvailable, req.ImgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %s priced at %s", item.Name, item.Price),
		requestID, map[string]interface{}{"item_id": item.ID})

	return item, nil
}

// GetItem returns a single menu item by id.
func (s *Service) GetItem(ctx context.Context, itemID int64) (*models.MenuItem, error) {
	return s.repo.GetItem(ctx, itemID)
}

// ListItems returns a page of menu items.
func (s *Service) ListItems(ctx context.Context, offset, limit int) ([]models.MenuItem, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListItems(ctx, offset, limit)
}

// UpdateItem applies a partial update to a menu item.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, upd *models.MenuItemUpdate, requestID string) (*models.MenuItem, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.IsAvailable != nil {
		item.IsAvailable = *upd.IsAvailable
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.logger.Info("menu_item_updated", fmt.Sprintf("Menu item %d updated", item.ID),
		requestID, map[string]interface{}{"item_id": item.ID})

	return item, nil
}

// HealthCheck reports whether the backing store is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	return s.repo.Ping(ctx) == nil
}
