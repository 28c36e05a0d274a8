package order

import (
	"context"
	"time"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// EventPublisher enqueues order lifecycle events on the bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.Event) error
}

// DefaultListLimit caps GET /orders/ pagination.
const DefaultListLimit = 100

// Service owns the order session and item lifecycle: status
// transitions, total computation, and the side effects each transition
// triggers. The persistence write is the only atomic part; events and
// table notifications are best-effort and never abort a transition.
type Service struct {
	repo      Repository
	pricer    Pricer
	tables    TableNotifier
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService wires the order service.
func NewService(repo Repository, pricer Pricer, tables TableNotifier, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		pricer:    pricer,
		tables:    tables,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrder opens an order session with its initial items, prices it,
// notifies chefs and managers, and marks the table unavailable.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, serverID int64, requestID string) (*models.OrderSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := s.pricer.TotalOf(ctx, req.OrderItems, serverID)

	order, err := s.repo.CreateOrder(ctx, req.TableID, serverID, req.OrderItems, total)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, models.NewOrderEvent(models.EventOrderCreated, models.RoleChef, order), requestID)
	s.emit(ctx, models.NewOrderEvent(models.EventOrderCreated, models.RoleManager, order), requestID)
	s.notifyTable(ctx, order.TableID, false, requestID)

	return order, nil
}

// GetOrder loads one session with its items.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*models.OrderSession, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// ListOrders returns sessions paginated, limit capped at DefaultListLimit.
func (s *Service) ListOrders(ctx context.Context, offset, limit int) ([]models.OrderSession, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListOrders(ctx, offset, limit)
}

// UpdateOrder applies a partial session update. A status change is
// validated against the session transition graph; closing or canceling
// stamps closed_at and restores the table.
func (s *Service) UpdateOrder(ctx context.Context, orderID int64, upd *models.OrderSessionUpdate, requestID string) (*models.OrderSession, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if upd.Status != nil && *upd.Status != order.Status {
		if err := models.ValidateOrderTransition(order.Status, *upd.Status); err != nil {
			return nil, err
		}
		order.Status = *upd.Status
		statusChanged = true
	}
	if upd.IsPaid != nil {
		order.IsPaid = *upd.IsPaid
	}
	if upd.TotalAmount != nil {
		order.TotalAmount = *upd.TotalAmount
	}
	if upd.ClosedAt != nil {
		order.ClosedAt = upd.ClosedAt
	}
	if statusChanged && order.ClosedAt == nil {
		now := time.Now().UTC()
		order.ClosedAt = &now
	}

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifyTable(ctx, order.TableID, true, requestID)
	}

	return order, nil
}

// ExtendOrder appends items to an open session. The total grows by the
// new items' price times quantity instead of a full recomputation.
func (s *Service) ExtendOrder(ctx context.Context, orderID int64, items []models.OrderItemCreate, requestID string) (*models.OrderSession, error) {
	if err := models.ValidateOrderItemCreates(items); err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderOpening {
		return nil, models.ErrOrderNotOpen
	}

	added, err := s.repo.AddItems(ctx, orderID, items)
	if err != nil {
		return nil, err
	}

	delta := s.pricer.TotalOf(ctx, items, order.ServerID)
	order.TotalAmount = order.TotalAmount.Add(delta)
	if err := s.repo.UpdateTotal(ctx, orderID, order.TotalAmount); err != nil {
		return nil, err
	}
	order.OrderItems = append(order.OrderItems, added...)

	s.emit(ctx, models.NewOrderEvent(models.EventOrderItemAdded, models.RoleChef, order), requestID)

	return order, nil
}

// UpdateOrderItem applies a partial item update. A status change must
// follow the item transition graph and the caller's role must be
// allowed to perform it. The update notification targets the role
// complementary to the caller so authors do not hear their own echo.
func (s *Service) UpdateOrderItem(ctx context.Context, orderID, itemID int64, upd *models.OrderItemUpdate, callerRole models.StaffRole, requestID string) (*models.OrderItem, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if upd.Status != nil && *upd.Status != item.Status {
		if !models.RoleMayTransition(callerRole, *upd.Status) {
			return nil, &models.ForbiddenError{Role: callerRole, Status: *upd.Status}
		}
		if err := models.ValidateItemTransition(item.Status, *upd.Status); err != nil {
			return nil, err
		}
		item.Status = *upd.Status
		statusChanged = true
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.Note != nil {
		item.Note = upd.Note
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if statusChanged {
		order, err := s.repo.GetOrder(ctx, orderID)
		if err == nil {
			s.emit(ctx, models.NewItemEvent(models.EventOrderItemUpdated, complementRole(callerRole), order, item), requestID)
		} else {
			s.logger.Error("order_snapshot_failed", "Could not load order for item event", requestID, err, map[string]interface{}{
				"order_id": orderID,
			})
		}
	}

	return item, nil
}

// CancelOrder cancels an opening session, cascades every non-terminal
// item to canceled, restores the table, and notifies chefs and
// managers. Canceling an already terminal session fails.
func (s *Service) CancelOrder(ctx context.Context, orderID int64, requestID string) (*models.OrderSession, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderOpening {
		return nil, &models.InvalidTransitionError{From: string(order.Status), To: string(models.OrderCanceled)}
	}

	if err := s.repo.CancelOrder(ctx, orderID); err != nil {
		return nil, err
	}

	order, err = s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.notifyTable(ctx, order.TableID, true, requestID)
	s.emit(ctx, models.NewOrderEvent(models.EventOrderCanceled, models.RoleChef, order), requestID)
	s.emit(ctx, models.NewOrderEvent(models.EventOrderCanceled, models.RoleManager, order), requestID)

	return order, nil
}

// BatchUpdateItemStatus applies independent status updates. An entry
// that fails validation is skipped and the rest proceed; one event is
// emitted per applied entry.
func (s *Service) BatchUpdateItemStatus(ctx context.Context, entries []models.BatchItemUpdate, callerRole models.StaffRole, requestID string) []models.OrderItem {
	var updated []models.OrderItem

	for _, entry := range entries {
		status := entry.Status
		item, err := s.UpdateOrderItem(ctx, entry.OrderID, entry.ItemID,
			&models.OrderItemUpdate{Status: &status}, callerRole, requestID)
		if err != nil {
			s.logger.Debug("batch_entry_skipped", "Skipping invalid batch entry", requestID, map[string]interface{}{
				"order_id": entry.OrderID,
				"item_id":  entry.ItemID,
				"status":   entry.Status,
				"reason":   err.Error(),
			})
			continue
		}
		updated = append(updated, *item)
	}

	return updated
}

// HealthCheck reports whether persistence is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	return s.repo.Ping(ctx) == nil
}

// complementRole picks the notification target opposite the author:
// non-chef updates notify the kitchen, chef updates notify the floor.
func complementRole(caller models.StaffRole) models.StaffRole {
	if caller != models.RoleChef {
		return models.RoleChef
	}
	return models.RoleWaiter
}

func (s *Service) emit(ctx context.Context, event *models.Event, requestID string) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Error("event_emit_failed", "Event not published", requestID, err, map[string]interface{}{
			"event":       event.Event,
			"target_role": event.Data.TargetRole,
		})
	}
}

func (s *Service) notifyTable(ctx context.Context, tableID int64, available bool, requestID string) {
	if err := s.tables.SetAvailability(ctx, tableID, available); err != nil {
		s.logger.Error("table_notify_failed", "Table availability not updated", requestID, err, map[string]interface{}{
			"table_id":     tableID,
			"is_available": available,
		})
	}
}
