package zimbra_sync_case

import (
	"context"

	"github.com/neolist/neolist/internal/entity"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/stretchr/testify/mock"
)

var _ zimbra.Adapter = (*MockAdapter)(nil)

type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) CreateTask(ctx context.Context, email string, payload entity.SyncPayload) (*zimbra.CreateResult, error) {
	args := m.Called(ctx, email, payload)
	res, _ := args.Get(0).(*zimbra.CreateResult)
	return res, args.Error(1)
}

func (m *MockAdapter) UpdateTask(ctx context.Context, email, externalID string, payload entity.SyncPayload) error {
	args := m.Called(ctx, email, externalID, payload)
	return args.Error(0)
}

func (m *MockAdapter) DeleteTask(ctx context.Context, email, externalID string) error {
	args := m.Called(ctx, email, externalID)
	return args.Error(0)
}
