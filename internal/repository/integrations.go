package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type integrationRepository struct {
	client *supabase.Client
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(client *supabase.Client) IntegrationRepository {
	return &integrationRepository{client: client}
}

func (r *integrationRepository) GetByUserAndProvider(ctx context.Context, userID, provider string) (*models.Integration, error) {
	query := map[string]interface{}{
		"user_id":  fmt.Sprintf("eq.%s", userID),
		"provider": fmt.Sprintf("eq.%s", provider),
		"select":   "*",
	}

	body, err := r.client.Query(ctx, "integrations", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	var integrations []models.Integration
	if err := json.Unmarshal(body, &integrations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(integrations) == 0 {
		return nil, nil
	}

	return &integrations[0], nil
}

func (r *integrationRepository) GetByUser(ctx context.Context, userID string) ([]models.Integration, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "provider.asc",
	}

	body, err := r.client.Query(ctx, "integrations", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get integrations: %w", err)
	}

	var integrations []models.Integration
	if err := json.Unmarshal(body, &integrations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return integrations, nil
}

func (r *integrationRepository) Connect(ctx context.Context, integration *models.Integration) (*models.Integration, error) {
	data := map[string]interface{}{
		"user_id":       integration.UserID,
		"provider":      integration.Provider,
		"is_connected":  true,
		"access_token":  integration.AccessToken,
		"refresh_token": integration.RefreshToken,
		"updated_at":    time.Now().Format(time.RFC3339),
	}
	if integration.TokenExpiresAt != nil {
		data["token_expires_at"] = integration.TokenExpiresAt.Format(time.RFC3339)
	}

	// Reconnecting an existing provider replaces its tokens
	body, err := r.client.Upsert(ctx, "integrations", data, "user_id,provider")
	if err != nil {
		return nil, fmt.Errorf("failed to connect integration: %w", err)
	}

	var integrations []models.Integration
	if err := json.Unmarshal(body, &integrations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(integrations) == 0 {
		return nil, fmt.Errorf("no integration returned")
	}

	return &integrations[0], nil
}

func (r *integrationRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}
	data := map[string]interface{}{
		"access_token":     accessToken,
		"refresh_token":    refreshToken,
		"token_expires_at": expiresAt.Format(time.RFC3339),
		"is_connected":     true,
		"updated_at":       time.Now().Format(time.RFC3339),
	}

	if _, err := r.client.UpdateWhere(ctx, "integrations", query, data); err != nil {
		return fmt.Errorf("failed to update integration tokens: %w", err)
	}

	return nil
}

func (r *integrationRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}
	data := map[string]interface{}{
		"last_sync_at": at.Format(time.RFC3339),
		"updated_at":   time.Now().Format(time.RFC3339),
	}

	if _, err := r.client.UpdateWhere(ctx, "integrations", query, data); err != nil {
		return fmt.Errorf("failed to update last sync: %w", err)
	}

	return nil
}

func (r *integrationRepository) Disconnect(ctx context.Context, id string) error {
	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}
	// Tokens are cleared so a stale credential can never be replayed
	data := map[string]interface{}{
		"is_connected":     false,
		"access_token":     "",
		"refresh_token":    "",
		"token_expires_at": nil,
		"updated_at":       time.Now().Format(time.RFC3339),
	}

	if _, err := r.client.UpdateWhere(ctx, "integrations", query, data); err != nil {
		return fmt.Errorf("failed to disconnect integration: %w", err)
	}

	return nil
}
