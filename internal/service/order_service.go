package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"canteen-counter/internal/cart"
	"canteen-counter/internal/model"
	"canteen-counter/internal/repository"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	isStaff   CapabilityChecker
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	isStaff CapabilityChecker,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		isStaff:   isStaff,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder freezes the cart into a new pending order. Validation failures
// happen before any store access; the cart is cleared only after the
// transaction commits, so a failed checkout can simply be retried.
func (s *orderService) PlaceOrder(ctx context.Context, c *cart.Cart, req *model.PlaceOrderRequest) (*model.OrderDetail, error) {
	if c == nil || c.IsEmpty() {
		return nil, model.ErrEmptyCart
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, model.ErrBlankCustomerName
	}
	contact := strings.TrimSpace(req.CustomerContact)
	if contact == "" {
		return nil, model.ErrBlankContact
	}

	snapshot := c.Snapshot()

	order := &model.Order{
		ID:              uuid.New(),
		CustomerName:    name,
		CustomerContact: contact,
		Status:          model.StatusPending,
		CreatedAt:       time.Now(),
	}

	lines := make([]model.OrderLine, len(snapshot))
	for i, l := range snapshot {
		lines[i] = model.OrderLine{
			ID:           uuid.New(),
			OrderID:      order.ID,
			LineNo:       i + 1,
			ItemName:     l.Name,
			ItemPrice:    l.Price,
			Quantity:     l.Quantity,
			Instructions: l.Instructions,
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = s.orderRepo.CreateOrderLines(ctx, tx, lines); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("line_count", len(lines)).
			Msg("failed to create order lines")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// The orders trigger broadcasts the creation; clearing is safe now
	// that the write is durable.
	c.Clear()

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("line_count", len(lines)).
		Str("customer", name).
		Msg("order placed")

	return &model.OrderDetail{Order: *order, Lines: lines}, nil
}

// TrackOrder retrieves an order with its lines.
func (s *orderService) TrackOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	detail, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if detail == nil {
		return nil, model.ErrOrderNotFound
	}
	return detail, nil
}

// ListActiveOrders retrieves all orders newest-first for the staff
// dashboard.
func (s *orderService) ListActiveOrders(ctx context.Context) ([]model.OrderDetail, error) {
	if !s.isStaff(ctx) {
		return nil, model.ErrUnauthorised
	}

	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Advance moves an order one step forward in the fulfilment sequence.
// The next status is computed from the status read here, and the write
// carries no version check: two staff racing on the same order may skip a
// step, never produce an out-of-sequence status. A completed order stays
// completed.
func (s *orderService) Advance(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if !s.isStaff(ctx) {
		s.logger.Warn().Str("order_id", id.String()).Msg("advance rejected, no staff capability")
		return nil, model.ErrUnauthorised
	}

	detail, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to read order for advance")
		return nil, fmt.Errorf("failed to advance order: %w", err)
	}
	if detail == nil {
		return nil, model.ErrOrderNotFound
	}

	next := detail.Order.Status.Next()
	if next == detail.Order.Status {
		// Already completed; nothing to persist.
		return &detail.Order, nil
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to advance order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(detail.Order.Status)).
		Str("to", string(updated.Status)).
		Msg("order advanced")

	return updated, nil
}
