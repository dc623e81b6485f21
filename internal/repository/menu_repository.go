package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"canteen-counter/internal/model"
)

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

const menuColumns = "id, name, price, category, image_url, available, created_at, updated_at"

func scanMenuItem(row pgx.Row) (*model.MenuItem, error) {
	var item model.MenuItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Category,
		&item.ImageURL,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if item.Price.IsNegative() {
		return nil, fmt.Errorf("menu item %s has negative price", item.ID)
	}
	return &item, nil
}

// List retrieves menu items ordered by category then name.
func (r *menuRepository) List(ctx context.Context, category string) ([]model.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		WHERE $1 = '' OR category = $1
		ORDER BY category, name
	`

	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		r.logger.Error().Err(err).Str("category", category).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`

	item, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return item, nil
}

// Categories returns the distinct category tags in use.
func (r *menuRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM menu_items ORDER BY category`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Create inserts a new menu item.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, price, category, image_url, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Price, item.Category,
		item.ImageURL, item.Available, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", item.ID.String()).Msg("failed to create menu item")
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	r.logger.Debug().Str("item_id", item.ID.String()).Msg("menu item created")
	return nil
}

// Update replaces a menu item's mutable fields.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, price = $3, category = $4, image_url = $5, available = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Price, item.Category,
		item.ImageURL, item.Available, item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", item.ID.String()).Msg("failed to update menu item")
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	r.logger.Debug().Str("item_id", item.ID.String()).Msg("menu item updated")
	return nil
}

// Delete removes a menu item.
func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	r.logger.Debug().Str("item_id", id.String()).Msg("menu item deleted")
	return nil
}
