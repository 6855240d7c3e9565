// Package repository owns the CRUD lifecycle of inspiration records,
// including asset upload orchestration on create and storage cleanup on
// delete.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/objectstore"
)

const selectColumns = "id, user_id, title, description, assets, tags, created_at"

// Uploader persists asset payloads and removes stored objects.
// *objectstore.Store satisfies it.
type Uploader interface {
	Upload(ctx context.Context, userID string, in domain.AssetInput) (domain.MediaAsset, error)
	RemoveMany(ctx context.Context, keys []string) []objectstore.RemoveResult
	KeyFromURL(rawURL string) (string, bool)
}

// Repository provides database operations for inspiration records.
type Repository struct {
	db      *sqlx.DB
	uploads Uploader
	log     logger.Logger
}

// NewRepository creates a repository over the given database and uploader.
func NewRepository(db *sqlx.DB, uploads Uploader, log logger.Logger) *Repository {
	return &Repository{db: db, uploads: uploads, log: log}
}

// inspirationRow is the persisted row shape.
type inspirationRow struct {
	ID          uuid.UUID      `db:"id"`
	UserID      string         `db:"user_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Assets      []byte         `db:"assets"`
	Tags        pq.StringArray `db:"tags"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (row *inspirationRow) toDomain() (*domain.Inspiration, error) {
	assets := []domain.MediaAsset{}
	if len(row.Assets) > 0 {
		if err := json.Unmarshal(row.Assets, &assets); err != nil {
			return nil, fmt.Errorf("decode assets for %s: %w", row.ID, err)
		}
	}

	return &domain.Inspiration{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: row.Description,
		Assets:      assets,
		Tags:        []string(row.Tags),
		CreatedAt:   row.CreatedAt,
	}, nil
}

// Create uploads every asset, then inserts exactly one row owned by the
// acting user. The row is written only after all uploads succeeded; any
// upload failure aborts the create with no row persisted. Input asset order
// is preserved in the stored record regardless of upload completion order.
func (r *Repository) Create(ctx context.Context, user domain.User, in domain.InspirationCreate) (*domain.Inspiration, error) {
	if user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}

	assets, err := r.uploadAll(ctx, user.ID, in.Assets)
	if err != nil {
		return nil, err
	}

	assetsJSON, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("encode assets: %w", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	insp := &domain.Inspiration{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       in.Title,
		Description: in.Description,
		Assets:      assets,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO inspirations (id, user_id, title, description, assets, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		insp.ID, insp.UserID, insp.Title, insp.Description,
		assetsJSON, pq.StringArray(tags), insp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert inspiration: %w", err)
	}

	return insp, nil
}

// uploadAll runs every upload concurrently and joins before returning.
// Results keep input order. On failure the error of the earliest failing
// input wins; uploads already in flight still run to completion.
func (r *Repository) uploadAll(ctx context.Context, userID string, inputs []domain.AssetInput) ([]domain.MediaAsset, error) {
	assets := make([]domain.MediaAsset, len(inputs))
	uploadErrs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in domain.AssetInput) {
			defer wg.Done()
			assets[i], uploadErrs[i] = r.uploads.Upload(ctx, userID, in)
		}(i, in)
	}
	wg.Wait()

	for _, err := range uploadErrs {
		if err != nil {
			return nil, err
		}
	}

	return assets, nil
}

// List returns the caller's records, newest first. An elevated identity
// bypasses the ownership filter and sees every record.
func (r *Repository) List(ctx context.Context, user domain.User) ([]domain.Inspiration, error) {
	if user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}

	query := "SELECT " + selectColumns + " FROM inspirations"
	args := []any{}

	if !user.Elevated() {
		query += " WHERE user_id = $1"
		args = append(args, user.ID)
	}

	query += " ORDER BY created_at DESC"

	rows := []inspirationRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list inspirations: %w", err)
	}

	out := make([]domain.Inspiration, 0, len(rows))
	for i := range rows {
		insp, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *insp)
	}

	return out, nil
}

// Update mutates title, description and/or tags of a record the caller owns.
// Assets are immutable through this path. A missing record and an ownership
// mismatch produce the same ErrNotFound.
func (r *Repository) Update(ctx context.Context, user domain.User, id uuid.UUID, upd domain.InspirationUpdate) (*domain.Inspiration, error) {
	if user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	set := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if upd.Title != nil {
		args = append(args, *upd.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.Tags != nil {
		args = append(args, pq.StringArray(*upd.Tags))
		set = append(set, fmt.Sprintf("tags = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE inspirations SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))

	if !user.Elevated() {
		args = append(args, user.ID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}

	query += " RETURNING " + selectColumns

	row := inspirationRow{}
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update inspiration: %w", err)
	}

	return row.toDomain()
}

// Delete removes a record the caller owns, cleaning up its exclusively-owned
// storage objects best-effort first. Cleanup failures are logged and never
// block the row deletion. Losing a delete race yields the same ErrNotFound
// as a missing record.
func (r *Repository) Delete(ctx context.Context, user domain.User, id uuid.UUID) error {
	if user.ID == "" {
		return domain.ErrUnauthenticated
	}

	assets, err := r.fetchAssetsScoped(ctx, user, id)
	if err != nil {
		return err
	}

	r.cleanupStorage(ctx, id, assets)

	query := "DELETE FROM inspirations WHERE id = $1"
	args := []any{id}
	if !user.Elevated() {
		query += " AND user_id = $2"
		args = append(args, user.ID)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete inspiration: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inspiration: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// fetchAssetsScoped reads a record's asset list with the same ownership
// scoping as the delete itself.
func (r *Repository) fetchAssetsScoped(ctx context.Context, user domain.User, id uuid.UUID) ([]domain.MediaAsset, error) {
	query := "SELECT assets FROM inspirations WHERE id = $1"
	args := []any{id}
	if !user.Elevated() {
		query += " AND user_id = $2"
		args = append(args, user.ID)
	}

	var raw []byte
	err := r.db.GetContext(ctx, &raw, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch inspiration assets: %w", err)
	}

	assets := []domain.MediaAsset{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &assets); err != nil {
			return nil, fmt.Errorf("decode assets for %s: %w", id, err)
		}
	}

	return assets, nil
}

// cleanupStorage derives storage keys from the record's durable asset URLs
// and removes the owned objects. URLs outside the store's public prefix
// (external pass-through links) contribute no key and are skipped.
func (r *Repository) cleanupStorage(ctx context.Context, id uuid.UUID, assets []domain.MediaAsset) {
	keys := make([]string, 0, len(assets))
	for _, asset := range assets {
		if key, ok := r.uploads.KeyFromURL(asset.Content); ok {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return
	}

	failed := 0
	for _, result := range r.uploads.RemoveMany(ctx, keys) {
		if result.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		r.log.Warn("Storage cleanup incomplete, deleting row anyway",
			logger.String("inspiration_id", id.String()),
			logger.Int("failed", failed),
			logger.Int("total", len(keys)),
		)
	}
}
