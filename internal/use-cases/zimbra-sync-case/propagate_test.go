package zimbra_sync_case

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	use_cases "github.com/neolist/neolist/internal/use-cases"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

var noErr = (*app_errors.AppError)(nil)

func newTestService() (*ZimbraSyncService, *MockSyncRepo, *MockAdapter, *use_cases.MockTxManager) {
	repo := new(MockSyncRepo)
	adapter := new(MockAdapter)
	txManager := new(use_cases.MockTxManager)
	service := &ZimbraSyncService{
		repo:      repo,
		txManager: txManager,
		adapter:   adapter,
		cfg: Config{
			BatchSize:    10,
			MaxAttempts:  3,
			BaseBackoff:  30 * time.Second,
			ClaimTimeout: 10 * time.Minute,
		},
		now: func() time.Time { return fixedNow },
	}
	return service, repo, adapter, txManager
}

func strPtr(s string) *string { return &s }

func sampleTask() *entity.TaskEntity {
	notes := "Blutwerte prüfen"
	return &entity.TaskEntity{
		ID:       "task-1",
		ListID:   "list-1",
		Title:    "Visite Zimmer 12",
		Notes:    &notes,
		Priority: entity.PriorityHigh,
	}
}

func syncAssignee() *entity.AssigneeEntity {
	return &entity.AssigneeEntity{
		TaskID:            "task-1",
		UserID:            "user-1",
		Email:             "pflege@klinik.de",
		ZimbraSyncEnabled: true,
	}
}

// Szenario: Create liefert ext-1, die Zuweisung trägt danach ext-1.
func TestPropagateCreate_WritesBackExternalID(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	task, assignee := sampleTask(), syncAssignee()

	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.MatchedBy(func(p entity.SyncPayload) bool {
		return p.Title == "Visite Zimmer 12" && p.Notes == "Blutwerte prüfen" && p.Priority == entity.PriorityHigh
	})).Return(&zimbra.CreateResult{ExternalID: "ext-1"}, nil)
	repo.On("SetExternalTaskID", ctx, "task-1", "user-1", "ext-1").Return(noErr)

	res := service.PropagateCreate(ctx, task, assignee)

	assert.Equal(t, entity.SyncResultCreated, res.Status)
	assert.Equal(t, "ext-1", res.ExternalID)
	require.NotNil(t, assignee.ExternalTaskID)
	assert.Equal(t, "ext-1", *assignee.ExternalTaskID)
	repo.AssertExpectations(t)
	adapter.AssertExpectations(t)
}

func TestPropagateCreate_FailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	assignee := syncAssignee()

	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	res := service.PropagateCreate(ctx, sampleTask(), assignee)

	assert.Equal(t, entity.SyncResultFailed, res.Status)
	assert.Contains(t, res.Error, "connection refused")
	assert.Nil(t, assignee.ExternalTaskID)
	repo.AssertNotCalled(t, "SetExternalTaskID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPropagateCreate_SkipsWithoutExternalCall(t *testing.T) {
	ctx := context.Background()
	service, _, adapter, _ := newTestService()

	disabled := syncAssignee()
	disabled.ZimbraSyncEnabled = false
	noEmail := syncAssignee()
	noEmail.Email = ""

	for _, a := range []*entity.AssigneeEntity{disabled, noEmail, nil} {
		res := service.PropagateCreate(ctx, sampleTask(), a)
		assert.Equal(t, entity.SyncResultSkipped, res.Status)
	}

	adapter.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropagateCreate_WriteBackFailureRemovesExternalObject(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	assignee := syncAssignee()

	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(&zimbra.CreateResult{ExternalID: "ext-9"}, nil)
	repo.On("SetExternalTaskID", ctx, "task-1", "user-1", "ext-9").Return(app_errors.NotFound("assignee_not_found"))
	adapter.On("DeleteTask", ctx, "pflege@klinik.de", "ext-9").Return(nil)

	res := service.PropagateCreate(ctx, sampleTask(), assignee)

	assert.Equal(t, entity.SyncResultFailed, res.Status)
	assert.ErrorIs(t, res.Err, errWriteBack)
	assert.Nil(t, assignee.ExternalTaskID)
	adapter.AssertExpectations(t)
}

// Create und direkt danach Update erzeugen genau ein externes Objekt.
func TestPropagateCreateThenUpdate_ReusesIdentifier(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	task, assignee := sampleTask(), syncAssignee()

	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(&zimbra.CreateResult{ExternalID: "ext-1"}, nil).Once()
	repo.On("SetExternalTaskID", ctx, "task-1", "user-1", "ext-1").Return(noErr).Once()
	adapter.On("UpdateTask", ctx, "pflege@klinik.de", "ext-1", mock.Anything).Return(nil).Once()

	created := service.PropagateCreate(ctx, task, assignee)
	updated := service.PropagateUpdate(ctx, task, assignee)

	assert.Equal(t, entity.SyncResultCreated, created.Status)
	assert.Equal(t, entity.SyncResultUpdated, updated.Status)
	assert.Equal(t, "ext-1", updated.ExternalID)
	adapter.AssertNumberOfCalls(t, "CreateTask", 1)
	adapter.AssertExpectations(t)
}

// Szenario: Update scheitert mit 404, Fallback-Create liefert ext-2.
func TestPropagateUpdate_NotFoundFallsBackToCreate(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	assignee := syncAssignee()
	assignee.ExternalTaskID = strPtr("ext-1")

	adapter.On("UpdateTask", ctx, "pflege@klinik.de", "ext-1", mock.Anything).Return(errors.New("404 Not Found"))
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(&zimbra.CreateResult{ExternalID: "ext-2"}, nil)
	repo.On("SetExternalTaskID", ctx, "task-1", "user-1", "ext-2").Return(noErr)

	res := service.PropagateUpdate(ctx, sampleTask(), assignee)

	assert.Equal(t, entity.SyncResultRecreated, res.Status)
	assert.Equal(t, "ext-2", res.ExternalID)
	assert.Equal(t, "ext-2", *assignee.ExternalTaskID)
	repo.AssertNotCalled(t, "SetExternalTaskID", ctx, "task-1", "user-1", "ext-1")
	repo.AssertExpectations(t)
}

func TestPropagateUpdate_FallbackFailureKeepsBothErrors(t *testing.T) {
	ctx := context.Background()
	service, _, adapter, _ := newTestService()
	assignee := syncAssignee()
	assignee.ExternalTaskID = strPtr("ext-1")

	adapter.On("UpdateTask", ctx, "pflege@klinik.de", "ext-1", mock.Anything).Return(&zimbra.StatusError{Code: 412, Method: "PUT"})
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(nil, &zimbra.StatusError{Code: 507, Method: "PUT"})

	res := service.PropagateUpdate(ctx, sampleTask(), assignee)

	assert.Equal(t, entity.SyncResultFailed, res.Status)
	assert.Contains(t, res.Error, "412")
	assert.Contains(t, res.Error, "507")
	assert.Equal(t, "ext-1", *assignee.ExternalTaskID)
}

func TestPropagateUpdate_TransientFailureDoesNotRecreate(t *testing.T) {
	ctx := context.Background()
	service, _, adapter, _ := newTestService()
	assignee := syncAssignee()
	assignee.ExternalTaskID = strPtr("ext-1")

	adapter.On("UpdateTask", ctx, "pflege@klinik.de", "ext-1", mock.Anything).Return(context.DeadlineExceeded)

	res := service.PropagateUpdate(ctx, sampleTask(), assignee)

	assert.Equal(t, entity.SyncResultFailed, res.Status)
	assert.True(t, zimbra.IsTransient(res.Err))
	adapter.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropagateUpdate_WithoutExternalIDCreates(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(&zimbra.CreateResult{ExternalID: "ext-3"}, nil)
	repo.On("SetExternalTaskID", ctx, "task-1", "user-1", "ext-3").Return(noErr)

	res := service.PropagateUpdate(ctx, sampleTask(), syncAssignee())

	assert.Equal(t, entity.SyncResultCreated, res.Status)
	adapter.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPropagateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("no external id issues no call", func(t *testing.T) {
		service, _, adapter, _ := newTestService()
		res := service.PropagateDelete(ctx, "pflege@klinik.de", "")
		assert.Equal(t, entity.SyncResultSkipped, res.Status)
		adapter.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already absent counts as deleted", func(t *testing.T) {
		service, _, adapter, _ := newTestService()
		adapter.On("DeleteTask", ctx, "pflege@klinik.de", "ext-1").Return(zimbra.ErrNotFound)
		res := service.PropagateDelete(ctx, "pflege@klinik.de", "ext-1")
		assert.Equal(t, entity.SyncResultDeleted, res.Status)
	})

	t.Run("failure is reported not raised", func(t *testing.T) {
		service, _, adapter, _ := newTestService()
		adapter.On("DeleteTask", ctx, "pflege@klinik.de", "ext-1").Return(&zimbra.StatusError{Code: 502, Method: "DELETE"})
		res := service.PropagateDelete(ctx, "pflege@klinik.de", "ext-1")
		assert.Equal(t, entity.SyncResultFailed, res.Status)
		assert.True(t, zimbra.IsTransient(res.Err))
	})
}

func TestPropagate_AdapterNotConfigured(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestService()
	service.adapter = nil

	assert.Equal(t, entity.SyncResultSkipped, service.PropagateCreate(ctx, sampleTask(), syncAssignee()).Status)
	assert.Equal(t, entity.SyncResultSkipped, service.PropagateDelete(ctx, "pflege@klinik.de", "ext-1").Status)
}
