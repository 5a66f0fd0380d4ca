package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

// ImageRepository implements port.ImageRepository using PostgreSQL.
type ImageRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewImageRepository wires a PostgreSQL-backed image repository.
func NewImageRepository(exec pgExecutor) *ImageRepository {
	return &ImageRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a posted image.
func (r *ImageRepository) Create(ctx context.Context, image domain.Image) error {
	sql, args, err := r.builder.Insert("camagru.images").
		Columns("id", "user_id", "content", "created_at").
		Values(image.ID, image.UserID, image.Content, image.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert image sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}

	return nil
}

// Delete removes an image, scoped to its owner.
func (r *ImageRepository) Delete(ctx context.Context, imageID, userID string) error {
	stmt, args, err := r.builder.Delete("camagru.images").
		Where(squirrel.Eq{"id": imageID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete image sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetOwnerID returns the posting user's id for an image.
func (r *ImageRepository) GetOwnerID(ctx context.Context, imageID string) (string, error) {
	stmt, args, err := r.builder.Select("user_id").
		From("camagru.images").
		Where(squirrel.Eq{"id": imageID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select image owner sql: %w", err)
	}

	var ownerID string
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("scan image owner: %w", err)
	}

	return ownerID, nil
}

// ListFeed returns a page of images newest-first, each joined with its author,
// like count, the viewer's like flag, and its comments. viewerID may be empty
// for anonymous viewers.
func (r *ImageRepository) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]domain.FeedImage, error) {
	stmt := `
		SELECT i.id, i.content, i.created_at, u.id, u.username,
		       (SELECT count(*) FROM camagru.likes l WHERE l.image_id = i.id),
		       EXISTS (SELECT 1 FROM camagru.likes l WHERE l.image_id = i.id AND l.user_id = $1)
		  FROM camagru.images i
		  JOIN camagru.users u ON u.id = i.user_id
		 ORDER BY i.created_at DESC
		 LIMIT $2 OFFSET $3
	`

	rows, err := r.exec.Query(ctx, stmt, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	images := make([]domain.FeedImage, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var img domain.FeedImage
		if err := rows.Scan(&img.ID, &img.Content, &img.CreatedAt, &img.User.ID, &img.User.Username, &img.Likes, &img.Liked); err != nil {
			return nil, fmt.Errorf("scan feed image: %w", err)
		}
		img.Comments = []domain.FeedComment{}
		images = append(images, img)
		ids = append(ids, img.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed: %w", err)
	}

	if len(ids) == 0 {
		return images, nil
	}

	commentStmt := `
		SELECT c.image_id, c.body, c.created_at, u.id, u.username
		  FROM camagru.comments c
		  JOIN camagru.users u ON u.id = c.user_id
		 WHERE c.image_id = ANY($1)
		 ORDER BY c.created_at ASC
	`

	commentRows, err := r.exec.Query(ctx, commentStmt, ids)
	if err != nil {
		return nil, fmt.Errorf("query feed comments: %w", err)
	}
	defer commentRows.Close()

	byImage := make(map[string][]domain.FeedComment, len(ids))
	for commentRows.Next() {
		var (
			imageID string
			comment domain.FeedComment
		)
		if err := commentRows.Scan(&imageID, &comment.Body, &comment.CreatedAt, &comment.User.ID, &comment.User.Username); err != nil {
			return nil, fmt.Errorf("scan feed comment: %w", err)
		}
		byImage[imageID] = append(byImage[imageID], comment)
	}
	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed comments: %w", err)
	}

	for i := range images {
		if comments, ok := byImage[images[i].ID]; ok {
			images[i].Comments = comments
		}
	}

	return images, nil
}

var _ port.ImageRepository = (*ImageRepository)(nil)
