package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const defaultListLimit = 50

// dbtx is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SavedRecipeRepository persists recipes the user chose to keep
type SavedRecipeRepository struct {
	db dbtx
}

func NewSavedRecipeRepository(db dbtx) *SavedRecipeRepository {
	return &SavedRecipeRepository{db: db}
}

// Save stores a copy of the recipe with the preferences that produced it
func (r *SavedRecipeRepository) Save(ctx context.Context, saved *entity.SavedRecipe) error {
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	id, err := uuid.Parse(saved.ID)
	if err != nil {
		return fmt.Errorf("%w: saved recipe id: %v", entity.ErrInvalidFormat, err)
	}

	recipeJSON, err := json.Marshal(saved.Recipe)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}
	prefsJSON, err := json.Marshal(saved.Prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO saved_recipes (id, owner, title, recipe, preferences)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		id, saved.Owner, saved.Recipe.Title, recipeJSON, prefsJSON,
	).Scan(&saved.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert saved recipe: %w", err)
	}

	return nil
}

// Get retrieves one saved recipe by ID
func (r *SavedRecipeRepository) Get(ctx context.Context, id string) (*entity.SavedRecipe, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, entity.ErrRecipeNotFound
	}

	row := r.db.QueryRow(ctx, `
		SELECT id, owner, recipe, preferences, created_at
		FROM saved_recipes
		WHERE id = $1`, uid)

	saved, err := scanSavedRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("query saved recipe: %w", err)
	}

	return saved, nil
}

// ListByOwner returns the owner's recipes, newest first
func (r *SavedRecipeRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*entity.SavedRecipe, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, owner, recipe, preferences, created_at
		FROM saved_recipes
		WHERE owner = $1
		ORDER BY created_at DESC
		LIMIT $2`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("query saved recipes: %w", err)
	}
	defer rows.Close()

	result := make([]*entity.SavedRecipe, 0)
	for rows.Next() {
		saved, err := scanSavedRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saved recipe: %w", err)
		}
		result = append(result, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved recipes: %w", err)
	}

	return result, nil
}

// Delete removes a saved recipe owned by owner
func (r *SavedRecipeRepository) Delete(ctx context.Context, owner, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return entity.ErrRecipeNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM saved_recipes WHERE id = $1 AND owner = $2`, uid, owner)
	if err != nil {
		return fmt.Errorf("delete saved recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrRecipeNotFound
	}

	return nil
}

func scanSavedRecipe(row pgx.Row) (*entity.SavedRecipe, error) {
	var (
		id         uuid.UUID
		owner      string
		recipeJSON []byte
		prefsJSON  []byte
		createdAt  time.Time
	)

	if err := row.Scan(&id, &owner, &recipeJSON, &prefsJSON, &createdAt); err != nil {
		return nil, err
	}

	saved := &entity.SavedRecipe{
		ID:        id.String(),
		Owner:     owner,
		CreatedAt: createdAt,
	}
	if err := json.Unmarshal(recipeJSON, &saved.Recipe); err != nil {
		return nil, fmt.Errorf("unmarshal recipe: %w", err)
	}
	if err := json.Unmarshal(prefsJSON, &saved.Prefs); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}

	return saved, nil
}
