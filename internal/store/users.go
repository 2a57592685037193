// internal/store/users.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/models"
)

// ErrNotFound is returned by UserStore lookups that match no row.
var ErrNotFound = errors.New("not found")

const userColumns = `id, name, email, phone, skills, bio, created_at, updated_at`

// updatableColumns maps profile fields to their column names.
var updatableColumns = map[string]string{
	"name":   "name",
	"phone":  "phone",
	"skills": "skills",
	"bio":    "bio",
}

type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ models.UserRepository = (*UserStore)(nil)

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "find_user_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findOne(ctx, "find_user_by_phone", `SELECT `+userColumns+` FROM users WHERE phone = $1 LIMIT 1`, phone)
}

func (s *UserStore) findOne(ctx context.Context, op, query string, arg interface{}) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(op, err)
	}
	return u, nil
}

// Create inserts u, assigning its ID and timestamps.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.Skills == nil {
		u.Skills = []string{}
	}
	skills, err := json.Marshal(u.Skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}

	now := s.now()
	created := *u
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, phone, skills, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8)`,
		created.ID, created.Name, created.Email, created.Phone, string(skills), created.Bio, created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_user", err)
	}
	return &created, nil
}

// Update sets the given profile fields and returns the stored row.
func (s *UserStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := updatableColumns[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := []interface{}{id}
	for _, k := range keys {
		v := fields[k]
		placeholder := fmt.Sprintf("$%d", len(args)+1)
		if k == "skills" {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode skills: %w", err)
			}
			v = string(raw)
			placeholder += "::jsonb"
		}
		sets = append(sets, fmt.Sprintf("%s = %s", updatableColumns[k], placeholder))
		args = append(args, v)
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, s.now())

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("update_user", err)
	}
	return u, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u      models.User
		skills []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &skills, &u.Bio, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &u.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return &u, nil
}
