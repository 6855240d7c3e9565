package repository_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/media"
	"github.com/nexuslab/capture/internal/objectstore"
	"github.com/nexuslab/capture/internal/repository"
)

const testPublicURL = "https://media.example.com/nexus-media"

var (
	alex = domain.User{ID: "user_01", Username: "alex", Role: domain.RoleOwner}
	godU = domain.User{ID: "god", Username: "god", Role: domain.RoleElevated}
)

// fakeUploader satisfies repository.Uploader without touching a backend.
type fakeUploader struct {
	uploaded  int
	failWhen  func(in domain.AssetInput) error
	removed   []string
	removeErr error
}

func (f *fakeUploader) Upload(_ context.Context, userID string, in domain.AssetInput) (domain.MediaAsset, error) {
	if f.failWhen != nil {
		if err := f.failWhen(in); err != nil {
			return domain.MediaAsset{}, err
		}
	}
	if !media.IsDataURI(in.Content) {
		return domain.MediaAsset{Type: in.Type, Content: in.Content}, nil
	}
	f.uploaded++
	return domain.MediaAsset{
		Type:    in.Type,
		Content: fmt.Sprintf("%s/media/%s/object-%d.png", testPublicURL, userID, f.uploaded),
	}, nil
}

func (f *fakeUploader) RemoveMany(_ context.Context, keys []string) []objectstore.RemoveResult {
	results := make([]objectstore.RemoveResult, 0, len(keys))
	for _, key := range keys {
		if f.removeErr == nil {
			f.removed = append(f.removed, key)
		}
		results = append(results, objectstore.RemoveResult{Key: key, Err: f.removeErr})
	}
	return results
}

func (f *fakeUploader) KeyFromURL(rawURL string) (string, bool) {
	prefix := testPublicURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, prefix), true
}

func newTestRepo(t *testing.T, uploads repository.Uploader) (*repository.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return repository.NewRepository(sqlxDB, uploads, logger.NewNop()), mock
}

func inspirationRows(records ...domain.Inspiration) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "assets", "tags", "created_at"})
	for _, rec := range records {
		assetsJSON, _ := json.Marshal(rec.Assets)
		rows.AddRow(rec.ID, rec.UserID, rec.Title, rec.Description, assetsJSON, "{"+strings.Join(rec.Tags, ",")+"}", rec.CreatedAt)
	}
	return rows
}

func TestCreate_UploadsThenInserts(t *testing.T) {
	uploads := &fakeUploader{}
	repo, mock := newTestRepo(t, uploads)

	mock.ExpectExec("INSERT INTO inspirations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	in := domain.InspirationCreate{
		Title:       "Kyoto Alley",
		Description: "a narrow alley in kyoto at dusk",
		Assets: []domain.AssetInput{
			{Type: domain.MediaImage, Content: media.EncodeDataURI("image/png", []byte("bytes"))},
			{Type: domain.MediaWebsite, Content: "https://example.com/article"},
		},
		Tags: []string{"Travel"},
	}

	got, err := repo.Create(context.Background(), alex, in)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "user_01", got.UserID)
	assert.False(t, got.CreatedAt.IsZero())
	require.Len(t, got.Assets, 2)
	assert.True(t, strings.HasPrefix(got.Assets[0].Content, testPublicURL+"/"),
		"uploaded asset must be a durable URL, got %q", got.Assets[0].Content)
	assert.Equal(t, "https://example.com/article", got.Assets[1].Content,
		"pass-through asset keeps input order")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UploadFailureWritesNoRow(t *testing.T) {
	tooLarge := &domain.PayloadTooLargeError{Size: domain.MaxPayloadBytes + 1}
	uploads := &fakeUploader{
		failWhen: func(in domain.AssetInput) error {
			if strings.Contains(in.Content, "oversized") {
				return tooLarge
			}
			return nil
		},
	}
	repo, mock := newTestRepo(t, uploads)

	in := domain.InspirationCreate{
		Title:       "Too big",
		Description: "oversized payload",
		Assets: []domain.AssetInput{
			{Type: domain.MediaImage, Content: media.EncodeDataURI("image/png", []byte("small"))},
			{Type: domain.MediaVideo, Content: "data:video/mp4;base64,oversized"},
		},
	}

	_, err := repo.Create(context.Background(), alex, in)

	var pErr *domain.PayloadTooLargeError
	require.ErrorAs(t, err, &pErr)
	require.NoError(t, mock.ExpectationsWereMet(), "no insert may happen after a failed upload")
}

func TestCreate_RequiresSession(t *testing.T) {
	repo, _ := newTestRepo(t, &fakeUploader{})

	_, err := repo.Create(context.Background(), domain.User{}, domain.InspirationCreate{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestList_OwnerScoped(t *testing.T) {
	repo, mock := newTestRepo(t, &fakeUploader{})

	rows := inspirationRows(domain.Inspiration{
		ID:          uuid.New(),
		UserID:      "user_01",
		Title:       "Mine",
		Description: "desc",
		Assets:      []domain.MediaAsset{{Type: domain.MediaImage, Content: testPublicURL + "/media/user_01/a.png"}},
		Tags:        []string{"Design"},
		CreatedAt:   time.Now(),
	})

	mock.ExpectQuery("SELECT id, user_id, title, description, assets, tags, created_at FROM inspirations WHERE user_id").
		WithArgs("user_01").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), alex)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Title)
	assert.Equal(t, []string{"Design"}, got[0].Tags)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ElevatedSeesAllOwners(t *testing.T) {
	repo, mock := newTestRepo(t, &fakeUploader{})

	now := time.Now()
	rows := inspirationRows(
		domain.Inspiration{ID: uuid.New(), UserID: "user_02", Title: "Y", Description: "d", CreatedAt: now},
		domain.Inspiration{ID: uuid.New(), UserID: "user_01", Title: "X", Description: "d", CreatedAt: now.Add(-time.Hour)},
	)

	mock.ExpectQuery("SELECT id, user_id, title, description, assets, tags, created_at FROM inspirations ORDER BY created_at DESC").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), godU)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "user_02", got[0].UserID)
	assert.Equal(t, "user_01", got[1].UserID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_OwnershipMismatchIsNotFound(t *testing.T) {
	repo, mock := newTestRepo(t, &fakeUploader{})

	mock.ExpectQuery("UPDATE inspirations SET title").
		WillReturnError(sql.ErrNoRows)

	title := "New title"
	_, err := repo.Update(context.Background(), alex, uuid.New(), domain.InspirationUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_EmptyPartialRejected(t *testing.T) {
	repo, _ := newTestRepo(t, &fakeUploader{})

	_, err := repo.Update(context.Background(), alex, uuid.New(), domain.InspirationUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdate_ReturnsUpdatedRecord(t *testing.T) {
	repo, mock := newTestRepo(t, &fakeUploader{})

	id := uuid.New()
	rows := inspirationRows(domain.Inspiration{
		ID: id, UserID: "user_01", Title: "Renamed", Description: "desc", Tags: []string{"Design"}, CreatedAt: time.Now(),
	})

	mock.ExpectQuery("UPDATE inspirations SET title").
		WillReturnRows(rows)

	title := "Renamed"
	got, err := repo.Update(context.Background(), alex, id, domain.InspirationUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_CleansOwnedObjectsOnly(t *testing.T) {
	uploads := &fakeUploader{}
	repo, mock := newTestRepo(t, uploads)

	assets, _ := json.Marshal([]domain.MediaAsset{
		{Type: domain.MediaImage, Content: testPublicURL + "/media/user_01/owned.png"},
		{Type: domain.MediaWebsite, Content: "https://example.com/external"},
	})

	id := uuid.New()
	mock.ExpectQuery("SELECT assets FROM inspirations WHERE id").
		WithArgs(id, "user_01").
		WillReturnRows(sqlmock.NewRows([]string{"assets"}).AddRow(assets))
	mock.ExpectExec("DELETE FROM inspirations WHERE id").
		WithArgs(id, "user_01").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), alex, id))

	assert.Equal(t, []string{"media/user_01/owned.png"}, uploads.removed,
		"only the store-owned object may be removed")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RowDeletedEvenWhenCleanupFails(t *testing.T) {
	uploads := &fakeUploader{removeErr: errors.New("bucket unreachable")}
	repo, mock := newTestRepo(t, uploads)

	assets, _ := json.Marshal([]domain.MediaAsset{
		{Type: domain.MediaImage, Content: testPublicURL + "/media/user_01/owned.png"},
	})

	id := uuid.New()
	mock.ExpectQuery("SELECT assets FROM inspirations WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"assets"}).AddRow(assets))
	mock.ExpectExec("DELETE FROM inspirations WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), alex, id),
		"cleanup failure must never block the row deletion")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_MissingRecordIsNotFound(t *testing.T) {
	repo, mock := newTestRepo(t, &fakeUploader{})

	mock.ExpectQuery("SELECT assets FROM inspirations WHERE id").
		WillReturnError(sql.ErrNoRows)

	err := repo.Delete(context.Background(), alex, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RaceLoserGetsNotFound(t *testing.T) {
	repo, mock := newTestRepo(t, &fakeUploader{})

	assets, _ := json.Marshal([]domain.MediaAsset{})

	mock.ExpectQuery("SELECT assets FROM inspirations WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"assets"}).AddRow(assets))
	mock.ExpectExec("DELETE FROM inspirations WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), alex, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
