// internal/store/accounts_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
)

// ==========================
// Mock Repository
// ==========================

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==========================
// Sign Up Tests
// ==========================

func TestAccounts_SignUpValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		wantMsg string
	}{
		{"empty payload", map[string]interface{}{}, "No JSON data provided"},
		{"missing email", map[string]interface{}{"name": "Asha"}, "Valid email is required"},
		{"malformed email", map[string]interface{}{"name": "Asha", "email": "asha@example"}, "Valid email is required"},
		{"missing name", map[string]interface{}{"email": "asha@example.com", "name": "  "}, "Missing required field: name"},
		{"wrong skills type", map[string]interface{}{"email": "asha@example.com", "name": "Asha", "skills": "go"}, "skills"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUsers{}
			a := NewAccounts(users, logger.NewNoOpLogger())

			_, err := a.SignUp(context.Background(), tt.payload)
			require.Error(t, err)
			se, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeUserValidationFailed, se.Code)
			assert.Contains(t, se.Message, tt.wantMsg)
			users.AssertExpectations(t)
		})
	}
}

func TestAccounts_SignUp(t *testing.T) {
	existing := &models.User{ID: "u-1", Email: "asha@example.com", Name: "Asha"}

	t.Run("duplicate phone", func(t *testing.T) {
		users := &MockUsers{}
		users.On("FindByPhone", mock.Anything, "+91 90000 00000").Return(&models.User{ID: "u-2"}, nil)

		_, err := NewAccounts(users, logger.NewNoOpLogger()).SignUp(context.Background(), map[string]interface{}{
			"name": "Asha", "email": "asha@example.com", "phone": " +91 90000 00000 ",
		})
		assert.Equal(t, apperrors.ErrCodeDuplicatePhone, apperrors.CodeOf(err))
		users.AssertExpectations(t)
	})

	t.Run("existing email", func(t *testing.T) {
		users := &MockUsers{}
		users.On("FindByEmail", mock.Anything, "asha@example.com").Return(existing, nil)

		res, err := NewAccounts(users, logger.NewNoOpLogger()).SignUp(context.Background(), map[string]interface{}{
			"name": "Asha", "email": " asha@example.com ",
		})
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, MsgUserExists, res.Message)
		assert.Equal(t, "u-1", res.User.ID)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("new user", func(t *testing.T) {
		users := &MockUsers{}
		users.On("FindByPhone", mock.Anything, "12345").Return(nil, ErrNotFound)
		users.On("FindByEmail", mock.Anything, "asha@example.com").Return(nil, ErrNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Name == "Asha" && u.Bio == "Engineer" && len(u.Skills) == 2
		})).Return(&models.User{ID: "u-3", Name: "Asha", Email: "asha@example.com"}, nil)

		res, err := NewAccounts(users, logger.NewNoOpLogger()).SignUp(context.Background(), map[string]interface{}{
			"name": " Asha ", "email": "asha@example.com", "phone": "12345",
			"skills": []interface{}{"go", "sql"}, "bio": " Engineer ",
		})
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, MsgUserCreated, res.Message)
		users.AssertExpectations(t)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		users := &MockUsers{}
		users.On("FindByEmail", mock.Anything, "asha@example.com").Return(nil, errors.New("db down"))

		_, err := NewAccounts(users, logger.NewNoOpLogger()).SignUp(context.Background(), map[string]interface{}{
			"name": "Asha", "email": "asha@example.com",
		})
		assert.EqualError(t, err, "db down")
	})
}

// ==========================
// Update Profile Tests
// ==========================

func TestAccounts_UpdateProfile(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "asha@example.com"}
	updatedAt := time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		payload  map[string]interface{}
		setup    func(*MockUsers)
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "invalid email",
			payload:  map[string]interface{}{"email": "nope", "name": "A"},
			setup:    func(*MockUsers) {},
			wantCode: apperrors.ErrCodeUserValidationFailed,
			wantMsg:  "Valid email is required to update profile",
		},
		{
			name:    "unknown user",
			payload: map[string]interface{}{"email": "asha@example.com", "name": "A"},
			setup: func(m *MockUsers) {
				m.On("FindByEmail", mock.Anything, "asha@example.com").Return(nil, ErrNotFound)
			},
			wantCode: apperrors.ErrCodeUserNotFound,
			wantMsg:  "User not found",
		},
		{
			name:    "no allowed fields",
			payload: map[string]interface{}{"email": "asha@example.com", "role": "admin"},
			setup: func(m *MockUsers) {
				m.On("FindByEmail", mock.Anything, "asha@example.com").Return(user, nil)
			},
			wantCode: apperrors.ErrCodeNoProfileFields,
			wantMsg:  "No fields provided for update",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUsers{}
			tt.setup(users)

			_, err := NewAccounts(users, logger.NewNoOpLogger()).UpdateProfile(context.Background(), tt.payload)
			se, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, tt.wantMsg, se.Message)
			users.AssertExpectations(t)
		})
	}

	t.Run("updates trimmed fields", func(t *testing.T) {
		users := &MockUsers{}
		users.On("FindByEmail", mock.Anything, "asha@example.com").Return(user, nil)
		users.On("Update", mock.Anything, "u-1", map[string]interface{}{
			"name":   "Asha R",
			"skills": []string{"go"},
		}).Return(&models.User{ID: "u-1", Name: "Asha R", UpdatedAt: updatedAt}, nil)

		res, err := NewAccounts(users, logger.NewNoOpLogger()).UpdateProfile(context.Background(), map[string]interface{}{
			"email": "asha@example.com", "name": " Asha R ", "skills": []interface{}{"go"},
		})
		require.NoError(t, err)
		assert.Equal(t, MsgProfileUpdated, res.Message)
		assert.Equal(t, "Asha R", res.UpdatedFields["name"])
		assert.Equal(t, "2025-04-01T09:30:00Z", res.UpdatedFields["updated_at"])
		users.AssertExpectations(t)
	})
}

func TestProfilePayload(t *testing.T) {
	name, email := "Asha", "asha@example.com"
	got := ProfilePayload(models.ProfileData{Name: &name, Email: &email, Skills: []string{"go"}})
	assert.Equal(t, map[string]interface{}{
		"name": "Asha", "email": "asha@example.com", "skills": []interface{}{"go"},
	}, got)
}

// ==========================
// UserStore Tests
// ==========================

var userCols = []string{"id", "name", "email", "phone", "skills", "bio", "created_at", "updated_at"}

func TestUserStore(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewUserStore(db)
	now := time.Now().UTC()

	t.Run("find by email", func(t *testing.T) {
		m.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "Asha", "asha@example.com", "", []byte(`["go"]`), "", now, now))
		u, err := s.FindByEmail(context.Background(), "asha@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, u.Skills)
	})

	t.Run("find by phone misses", func(t *testing.T) {
		m.ExpectQuery(`FROM users WHERE phone = \$1`).WithArgs("555").WillReturnRows(sqlmock.NewRows(userCols))
		_, err := s.FindByPhone(context.Background(), "555")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create", func(t *testing.T) {
		m.ExpectExec(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "Asha", "asha@example.com", "", "[]", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		u, err := s.Create(context.Background(), &models.User{Name: "Asha", Email: "asha@example.com"})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
	})

	t.Run("update builds ordered set clause", func(t *testing.T) {
		m.ExpectQuery(`UPDATE users SET bio = \$2, name = \$3, skills = \$4::jsonb, updated_at = \$5 WHERE id = \$1 RETURNING`).
			WithArgs("u-1", "hi", "Asha", `["go","sql"]`, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "Asha", "asha@example.com", "", []byte(`["go","sql"]`), "hi", now, now))
		u, err := s.Update(context.Background(), "u-1", map[string]interface{}{
			"name": "Asha", "bio": "hi", "skills": []string{"go", "sql"}, "email": "ignored@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "hi", u.Bio)
	})

	assert.NoError(t, m.ExpectationsWereMet())
}
