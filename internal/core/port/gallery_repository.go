package port

import (
	"context"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// ImageRepository abstracts persistence for posted images.
type ImageRepository interface {
	Create(ctx context.Context, image domain.Image) error
	Delete(ctx context.Context, imageID, userID string) error
	GetOwnerID(ctx context.Context, imageID string) (string, error)
	ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]domain.FeedImage, error)
}

// CommentRepository abstracts persistence for image comments.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
}

// LikeRepository abstracts persistence for image likes.
type LikeRepository interface {
	Exists(ctx context.Context, userID, imageID string) (bool, error)
	Add(ctx context.Context, userID, imageID string) error
	Remove(ctx context.Context, userID, imageID string) error
}
