package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"canteen-counter/internal/model"
	"canteen-counter/internal/repository"
)

// catalogService implements CatalogService.
type catalogService struct {
	menuRepo repository.MenuRepository
	isStaff  CapabilityChecker
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	menuRepo repository.MenuRepository,
	isStaff CapabilityChecker,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		menuRepo: menuRepo,
		isStaff:  isStaff,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// ListItems retrieves menu items, optionally filtered by category.
func (s *catalogService) ListItems(ctx context.Context, category string) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// GetItem retrieves a single menu item.
func (s *catalogService) GetItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.ErrMenuItemNotFound
	}
	return item, nil
}

// Categories returns the distinct category tags in use.
func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.menuRepo.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateItem adds a menu item. The menu trigger broadcasts the change to
// every connected menu view.
func (s *catalogService) CreateItem(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if !s.isStaff(ctx) {
		return nil, model.ErrUnauthorised
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.MenuItem{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Category:  strings.TrimSpace(req.Category),
		ImageURL:  req.ImageURL,
		Available: req.Available,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info().Str("item_id", item.ID.String()).Str("name", item.Name).Msg("menu item created")
	return item, nil
}

// UpdateItem replaces a menu item's fields.
func (s *catalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if !s.isStaff(ctx) {
		return nil, model.ErrUnauthorised
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	if existing == nil {
		return nil, model.ErrMenuItemNotFound
	}

	item := &model.MenuItem{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Category:  strings.TrimSpace(req.Category),
		ImageURL:  req.ImageURL,
		Available: req.Available,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Str("item_id", id.String()).Msg("menu item updated")
	return item, nil
}

// DeleteItem removes a menu item. Historical orders are unaffected because
// their lines froze name and price at checkout.
func (s *catalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if !s.isStaff(ctx) {
		return model.ErrUnauthorised
	}

	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("item_id", id.String()).Msg("menu item deleted")
	return nil
}
