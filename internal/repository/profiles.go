package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type profileRepository struct {
	client *supabase.Client
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(client *supabase.Client) ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	query := map[string]interface{}{
		"id":     fmt.Sprintf("eq.%s", userID),
		"select": "*",
	}

	body, err := r.client.Query(ctx, "profiles", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profiles []models.Profile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	return &profiles[0], nil
}
