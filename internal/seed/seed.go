package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
)

// CategoryUpserter stores a category keyed by its name
type CategoryUpserter interface {
	UpsertByName(ctx context.Context, c *models.Category) error
}

type defaultCategory struct {
	name        string
	description string
}

var defaultCategories = []defaultCategory{
	{"Sports & Fitness", "Physical activities and sports events"},
	{"Arts & Culture", "Creative and cultural activities"},
	{"Education", "Learning and educational events"},
	{"Technology", "Tech meetups and workshops"},
	{"Social", "Social gatherings and meetups"},
	{"Outdoor & Adventure", "Outdoor activities and adventures"},
	{"Food & Drink", "Culinary experiences and tastings"},
	{"Health & Wellness", "Health and wellness activities"},
	{"Business & Career", "Professional development events"},
	{"Music & Entertainment", "Music events and entertainment"},
}

// CreateDefaultData upserts the default categories. Every category is
// attempted; failures are joined into the returned error.
func CreateDefaultData(ctx context.Context, categories CategoryUpserter, lgr zerolog.Logger) error {
	lgr.Info().Int("count", len(defaultCategories)).Msg("Checking/Creating default categories...")

	var finalErr error
	for _, def := range defaultCategories {
		description := def.description
		category := &models.Category{Name: def.name, Description: &description}
		if err := categories.UpsertByName(ctx, category); err != nil {
			lgr.Error().Err(err).Str("category", def.name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Str("category", def.name).Str("id", category.ID.String()).Msg("Default category ready")
	}

	if finalErr == nil {
		lgr.Info().Msg("Default categories are in place")
	}
	return finalErr
}
