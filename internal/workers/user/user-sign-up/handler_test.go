// internal/workers/user/user-sign-up/handler_test.go
package usersignup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"career-chat-workers/internal/common/config"
	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/store"
)

// ==========================
// Mock Repository
// ==========================

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	args := m.Called(ctx, u)
	if out := args.Get(0); out != nil {
		return out.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if out := args.Get(0); out != nil {
		return out.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newHandler(t *testing.T, users *MockUsers) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Users:        users,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func strPtr(s string) *string { return &s }

// ==========================
// Execute
// ==========================

func TestHandler_Execute_NewUser(t *testing.T) {
	users := &MockUsers{}
	users.On("FindByPhone", mock.Anything, "+15550100").Return(nil, store.ErrNotFound)
	users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, store.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ada" && u.Email == "ada@example.com" && assert.ObjectsAreEqual([]string{"go", "sql"}, u.Skills)
	})).Return(&models.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()}, nil)

	out, err := newHandler(t, users).Execute(context.Background(), &Input{
		User: map[string]interface{}{
			"name":   "Ada",
			"email":  "ada@example.com",
			"phone":  "+15550100",
			"skills": []interface{}{"go", "sql"},
		},
	})

	require.NoError(t, err)
	assert.True(t, out.UserCreated)
	assert.Equal(t, store.MsgUserCreated, out.Message)
	assert.Equal(t, "u-1", out.UserID)
	users.AssertExpectations(t)
}

func TestHandler_Execute_FromExtractedData(t *testing.T) {
	users := &MockUsers{}
	existing := &models.User{ID: "u-9", Name: "Grace", Email: "grace@example.com"}
	users.On("FindByEmail", mock.Anything, "grace@example.com").Return(existing, nil)

	out, err := newHandler(t, users).Execute(context.Background(), &Input{
		ExtractedData: &models.ProfileData{Name: strPtr("Grace"), Email: strPtr("grace@example.com")},
	})

	require.NoError(t, err)
	assert.False(t, out.UserCreated)
	assert.Equal(t, store.MsgUserExists, out.Message)
	assert.Equal(t, "u-9", out.UserID)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(*MockUsers)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "no payload",
			input:    &Input{},
			setup:    func(*MockUsers) {},
			wantCode: apperrors.ErrCodeUserValidationFailed,
		},
		{
			name:     "invalid email",
			input:    &Input{User: map[string]interface{}{"name": "Ada", "email": "not-an-email"}},
			setup:    func(*MockUsers) {},
			wantCode: apperrors.ErrCodeUserValidationFailed,
		},
		{
			name:  "duplicate phone",
			input: &Input{User: map[string]interface{}{"name": "Ada", "email": "ada@example.com", "phone": "+15550100"}},
			setup: func(m *MockUsers) {
				m.On("FindByPhone", mock.Anything, "+15550100").Return(&models.User{ID: "u-2"}, nil)
			},
			wantCode: apperrors.ErrCodeDuplicatePhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUsers{}
			tt.setup(users)

			_, err := newHandler(t, users).Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestHandler_Execute_RepositoryFailure(t *testing.T) {
	users := &MockUsers{}
	dbErr := apperrors.NewQueryExecutionFailedError("find user", errors.New("connection reset"))
	users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, dbErr)

	_, err := newHandler(t, users).Execute(context.Background(), &Input{
		User: map[string]interface{}{"name": "Ada", "email": "ada@example.com"},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsRetryableErrorCode(apperrors.CodeOf(err)))
}

// ==========================
// Configuration
// ==========================

func TestNewHandler(t *testing.T) {
	t.Run("app config overrides defaults", func(t *testing.T) {
		appCfg := &config.Config{Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 2, Timeout: 2500},
		}}
		h, err := NewHandler(HandlerOptions{AppConfig: appCfg, Users: &MockUsers{}, Logger: logger.NewNoOpLogger()})

		require.NoError(t, err)
		assert.False(t, h.IsEnabled())
		assert.Equal(t, 2, h.config.MaxJobsActive)
		assert.Equal(t, 2500*time.Millisecond, h.config.Timeout)
		assert.Equal(t, TaskType, h.GetTaskType())
	})

	t.Run("invalid custom config", func(t *testing.T) {
		_, err := NewHandler(HandlerOptions{CustomConfig: &Config{Timeout: 0, MaxJobsActive: 1}, Users: &MockUsers{}})
		assert.Error(t, err)
	})

	t.Run("missing repository", func(t *testing.T) {
		_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig()})
		assert.Error(t, err)
	})
}
