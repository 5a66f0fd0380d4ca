package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

var (
	// ErrImageNotFound indicates the image does not exist or is not visible
	// to the caller.
	ErrImageNotFound = errors.New("image not found")
	// ErrInvalidImage indicates the posted content is not a data URL image.
	ErrInvalidImage = errors.New("image content must be a data URL")
	// ErrEmptyComment indicates a comment with no body.
	ErrEmptyComment = errors.New("comment body is required")
)

// GalleryService owns the image feed: posting, deleting, liking, and
// commenting with owner notification.
type GalleryService struct {
	images   port.ImageRepository
	comments port.CommentRepository
	likes    port.LikeRepository
	users    port.UserRepository
	settings port.SettingsRepository
	notifier port.Notifier
	pageSize int
	log      *zap.Logger
}

// NewGalleryService constructs the gallery service. pageSize bounds feed
// pages.
func NewGalleryService(
	images port.ImageRepository,
	comments port.CommentRepository,
	likes port.LikeRepository,
	users port.UserRepository,
	settings port.SettingsRepository,
	notifier port.Notifier,
	pageSize int,
	log *zap.Logger,
) *GalleryService {
	return &GalleryService{
		images:   images,
		comments: comments,
		likes:    likes,
		users:    users,
		settings: settings,
		notifier: notifier,
		pageSize: pageSize,
		log:      log,
	}
}

// Feed returns one page of the newest-first image feed. viewerID may be
// empty; the liked flag is then false everywhere. Pages are 1-based.
func (s *GalleryService) Feed(ctx context.Context, viewerID string, page int) ([]domain.FeedImage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	feed, err := s.images.ListFeed(ctx, viewerID, s.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return feed, nil
}

// CreateImage stores a posted picture. The server treats the content as an
// opaque data URL; composition happens client-side.
func (s *GalleryService) CreateImage(ctx context.Context, userID, content string) (domain.Image, error) {
	if !strings.HasPrefix(content, "data:image/") {
		return domain.Image{}, ErrInvalidImage
	}

	image := domain.Image{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.images.Create(ctx, image); err != nil {
		return domain.Image{}, fmt.Errorf("create image: %w", err)
	}
	return image, nil
}

// DeleteImage removes the user's own image. Deleting someone else's image
// reports not found rather than forbidden, so image ids cannot be probed.
func (s *GalleryService) DeleteImage(ctx context.Context, userID, imageID string) error {
	if err := s.images.Delete(ctx, imageID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// ToggleLike flips the user's like on the image and reports the new state.
func (s *GalleryService) ToggleLike(ctx context.Context, userID, imageID string) (bool, error) {
	if _, err := s.images.GetOwnerID(ctx, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrImageNotFound
		}
		return false, fmt.Errorf("load image: %w", err)
	}

	liked, err := s.likes.Exists(ctx, userID, imageID)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	if liked {
		if err := s.likes.Remove(ctx, userID, imageID); err != nil {
			return false, fmt.Errorf("remove like: %w", err)
		}
		return false, nil
	}

	if err := s.likes.Add(ctx, userID, imageID); err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	return true, nil
}

// Comment records a remark on an image and notifies the owner by mail when
// they opted in. Notification failures are logged, never surfaced; the
// comment is already stored.
func (s *GalleryService) Comment(ctx context.Context, userID, imageID, body string) (domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Comment{}, ErrEmptyComment
	}

	ownerID, err := s.images.GetOwnerID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Comment{}, ErrImageNotFound
		}
		return domain.Comment{}, fmt.Errorf("load image: %w", err)
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		ImageID:   imageID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	if ownerID != userID {
		s.notifyOwner(ctx, ownerID, userID, body)
	}

	return comment, nil
}

func (s *GalleryService) notifyOwner(ctx context.Context, ownerID, commenterID, body string) {
	settings, err := s.settings.GetByUserID(ctx, ownerID)
	if err != nil {
		logger.WithContext(ctx).Warn("load owner settings for comment notification failed", zap.Error(err))
		return
	}
	if !settings.NotifyComments {
		return
	}

	commenter, err := s.users.GetByID(ctx, commenterID)
	if err != nil {
		logger.WithContext(ctx).Warn("load commenter for notification failed", zap.Error(err))
		return
	}

	subject := "New comment on your photo"
	mailBody := fmt.Sprintf("%s commented on your photo:\n\n%s", commenter.Username, body)
	if err := s.notifier.Send(ctx, settings.Email, subject, mailBody); err != nil {
		logger.WithContext(ctx).Warn("comment notification delivery failed",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
}
