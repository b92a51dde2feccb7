package use_cases

import (
	"github.com/neolist/neolist/internal/queue"
	"github.com/stretchr/testify/mock"
)

var _ queue.TaskQueueClient = (*MockTaskQueue)(nil)

type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) EnqueueDrainSyncQueue(reason string) error {
	args := m.Called(reason)
	return args.Error(0)
}
