package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lunahealth/backend/internal/models"
)

type mockIntegrationRepo struct {
	byProvider   map[string]*models.Integration
	disconnected []string
}

func newMockIntegrationRepo() *mockIntegrationRepo {
	return &mockIntegrationRepo{byProvider: make(map[string]*models.Integration)}
}

func (m *mockIntegrationRepo) GetByUserAndProvider(ctx context.Context, userID, provider string) (*models.Integration, error) {
	return m.byProvider[provider], nil
}

func (m *mockIntegrationRepo) GetByUser(ctx context.Context, userID string) ([]models.Integration, error) {
	var out []models.Integration
	for _, i := range m.byProvider {
		out = append(out, *i)
	}
	return out, nil
}

func (m *mockIntegrationRepo) Connect(ctx context.Context, integration *models.Integration) (*models.Integration, error) {
	integration.ID = "integ-1"
	integration.IsConnected = true
	m.byProvider[integration.Provider] = integration
	return integration, nil
}

func (m *mockIntegrationRepo) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

func (m *mockIntegrationRepo) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (m *mockIntegrationRepo) Disconnect(ctx context.Context, id string) error {
	m.disconnected = append(m.disconnected, id)
	return nil
}

func TestListStripsTokens(t *testing.T) {
	repo := newMockIntegrationRepo()
	repo.byProvider["fitbit"] = &models.Integration{
		ID:           "integ-1",
		UserID:       "user-1",
		Provider:     "fitbit",
		IsConnected:  true,
		AccessToken:  "secret-access",
		RefreshToken: "secret-refresh",
	}

	svc := NewIntegrationsService(repo)
	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("integrations = %d, want 1", len(list))
	}
	if list[0].AccessToken != "" || list[0].RefreshToken != "" {
		t.Error("tokens must never be returned to clients")
	}
	if !list[0].IsConnected {
		t.Error("connection state should be preserved")
	}
}

func TestDisconnectUnknownProvider(t *testing.T) {
	svc := NewIntegrationsService(newMockIntegrationRepo())

	err := svc.Disconnect(context.Background(), "user-1", "fitbit")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestConnectStripsTokensFromResponse(t *testing.T) {
	svc := NewIntegrationsService(newMockIntegrationRepo())

	integ, err := svc.Connect(context.Background(), "user-1", "fitbit", "at", "rt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if integ.AccessToken != "" || integ.RefreshToken != "" {
		t.Error("connect response must not echo tokens")
	}
}
