package local

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/internal/models"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

// CreatePost stores a new feed entry, assigning its id and server timestamp.
func (b *Backend) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	if strings.TrimSpace(post.Text) == "" && post.ImageURL == "" {
		return models.Post{}, fmt.Errorf("post needs text or an image")
	}
	if post.AuthorID == "" {
		return models.Post{}, fmt.Errorf("post author is required")
	}
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now()
	if err := b.db.WithContext(ctx).Create(&post).Error; err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// ListPosts returns the newest posts first.
func (b *Backend) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	var posts []models.Post
	if err := b.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost fetches one post; the API layer needs it for ownership checks.
func (b *Backend) GetPost(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	if err := b.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Post{}, fmt.Errorf("post %s: %w", id, gorm.ErrRecordNotFound)
		}
		return models.Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// DeletePost removes a post by id. Authorization is the caller's concern.
func (b *Backend) DeletePost(ctx context.Context, id string) error {
	if err := b.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
