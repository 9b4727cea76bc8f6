package service

import (
	"context"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/repository"
)

// IntegrationsService manages per-user provider connections.
type IntegrationsService interface {
	List(ctx context.Context, userID string) ([]models.Integration, error)
	Connect(ctx context.Context, userID, provider, accessToken, refreshToken string, expiresAt *time.Time) (*models.Integration, error)
	Disconnect(ctx context.Context, userID, provider string) error
}

type integrationsService struct {
	integrations repository.IntegrationRepository
}

// NewIntegrationsService creates a new integrations service
func NewIntegrationsService(integrations repository.IntegrationRepository) IntegrationsService {
	return &integrationsService{integrations: integrations}
}

// List returns connection state with credentials stripped; tokens never
// leave the backend.
func (s *integrationsService) List(ctx context.Context, userID string) ([]models.Integration, error) {
	integrations, err := s.integrations.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range integrations {
		integrations[i].AccessToken = ""
		integrations[i].RefreshToken = ""
	}
	return integrations, nil
}

func (s *integrationsService) Connect(ctx context.Context, userID, provider, accessToken, refreshToken string, expiresAt *time.Time) (*models.Integration, error) {
	integ, err := s.integrations.Connect(ctx, &models.Integration{
		UserID:         userID,
		Provider:       provider,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		TokenExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}
	integ.AccessToken = ""
	integ.RefreshToken = ""
	return integ, nil
}

func (s *integrationsService) Disconnect(ctx context.Context, userID, provider string) error {
	integ, err := s.integrations.GetByUserAndProvider(ctx, userID, provider)
	if err != nil {
		return err
	}
	if integ == nil {
		return ErrNotFound
	}
	return s.integrations.Disconnect(ctx, integ.ID)
}
