package local

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
)

// GetProfile fetches a profile by id. A clean miss is ErrProfileNotFound.
func (b *Backend) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	if err := b.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Profile{}, backend.ErrProfileNotFound
		}
		return models.Profile{}, fmt.Errorf("get profile %s: %w", id, err)
	}
	return p, nil
}

// SetProfile creates or replaces the profile document for its id.
func (b *Backend) SetProfile(ctx context.Context, profile models.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	now := time.Now()
	profile.UpdatedAt = now

	var existing models.Profile
	err := b.db.WithContext(ctx).Where("id = ?", profile.ID).First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		profile.CreatedAt = now
		if err := b.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile %s: %w", profile.ID, err)
		}
	case err != nil:
		return fmt.Errorf("look up profile %s: %w", profile.ID, err)
	default:
		profile.CreatedAt = existing.CreatedAt
		if err := b.db.WithContext(ctx).Model(&models.Profile{ID: profile.ID}).
			Select("*").Omit("created_at").Updates(&profile).Error; err != nil {
			return fmt.Errorf("update profile %s: %w", profile.ID, err)
		}
	}
	return nil
}

// SearchProfiles returns profiles whose display name, school or city contains
// the query, case-insensitively. An empty query lists everyone.
func (b *Backend) SearchProfiles(ctx context.Context, query string) ([]models.Profile, error) {
	tx := b.db.WithContext(ctx).Model(&models.Profile{}).Order("display_name")
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		pattern := "%" + q + "%"
		tx = tx.Where(
			"lower(display_name) LIKE @q OR lower(school) LIKE @q OR lower(city) LIKE @q",
			map[string]any{"q": pattern},
		)
	}
	var profiles []models.Profile
	if err := tx.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}
