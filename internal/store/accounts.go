// internal/store/accounts.go
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/validation"
	"career-chat-workers/internal/models"
)

const (
	MsgUserCreated    = "User signed up successfully"
	MsgUserExists     = "User already exists"
	MsgProfileUpdated = "Profile updated successfully"
)

var profileFields = []string{"name", "phone", "skills", "bio"}

// SignUpResult reports whether a new user was created or an existing one matched.
type SignUpResult struct {
	Created bool         `json:"created"`
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type UpdateResult struct {
	Message       string                 `json:"message"`
	UpdatedFields map[string]interface{} `json:"updated_fields"`
	User          *models.User           `json:"user"`
}

// Accounts applies the sign-up and profile update rules over a UserRepository.
type Accounts struct {
	users  models.UserRepository
	logger logger.Logger
	now    func() time.Time
}

func NewAccounts(users models.UserRepository, log logger.Logger) *Accounts {
	return &Accounts{
		users:  users,
		logger: log.With(map[string]interface{}{"component": "accounts"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SignUp registers the user described by payload. An existing email is not
// an error: the stored user is returned with Created=false.
func (a *Accounts) SignUp(ctx context.Context, payload map[string]interface{}) (*SignUpResult, error) {
	if len(payload) == 0 {
		return nil, apperrors.NewUserValidationError("No JSON data provided")
	}

	email := trimmed(payload, "email")
	if email == "" || !validation.ValidateEmail(email) {
		return nil, apperrors.NewUserValidationError("Valid email is required")
	}
	if trimmed(payload, "name") == "" {
		return nil, apperrors.NewUserValidationError("Missing required field: name")
	}
	if err := checkSchema(validation.SignUpSchema, payload); err != nil {
		return nil, err
	}

	phone := trimmed(payload, "phone")
	if phone != "" {
		_, err := a.users.FindByPhone(ctx, phone)
		if err == nil {
			return nil, apperrors.NewDuplicatePhoneError(phone)
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	existing, err := a.users.FindByEmail(ctx, email)
	if err == nil {
		return &SignUpResult{Created: false, Message: MsgUserExists, User: existing}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := a.users.Create(ctx, &models.User{
		Name:   trimmed(payload, "name"),
		Email:  email,
		Phone:  phone,
		Skills: stringList(payload["skills"]),
		Bio:    trimmed(payload, "bio"),
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("user signed up", map[string]interface{}{"userId": created.ID})
	return &SignUpResult{Created: true, Message: MsgUserCreated, User: created}, nil
}

// UpdateProfile changes the allowed fields present in payload for the user
// identified by payload["email"].
func (a *Accounts) UpdateProfile(ctx context.Context, payload map[string]interface{}) (*UpdateResult, error) {
	if len(payload) == 0 {
		return nil, apperrors.NewUserValidationError("No JSON data provided")
	}

	email := trimmed(payload, "email")
	if email == "" || !validation.ValidateEmail(email) {
		return nil, apperrors.NewUserValidationError("Valid email is required to update profile")
	}
	if err := checkSchema(validation.UpdateProfileSchema, payload); err != nil {
		return nil, err
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	for _, f := range profileFields {
		v, ok := payload[f]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			fields[f] = strings.TrimSpace(val)
		case []interface{}:
			fields[f] = stringList(val)
		default:
			fields[f] = val
		}
	}
	if len(fields) == 0 {
		return nil, apperrors.NewNoProfileFieldsError()
	}

	updated, err := a.users.Update(ctx, user.ID, fields)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = updated.UpdatedAt.Format(time.RFC3339)
	a.logger.Info("profile updated", map[string]interface{}{"userId": updated.ID, "fields": len(fields) - 1})
	return &UpdateResult{Message: MsgProfileUpdated, UpdatedFields: fields, User: updated}, nil
}

// ProfilePayload converts extracted profile data into a sign-up/update payload.
func ProfilePayload(p models.ProfileData) map[string]interface{} {
	out := map[string]interface{}{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	if p.Phone != nil {
		out["phone"] = *p.Phone
	}
	if p.Bio != nil {
		out["bio"] = *p.Bio
	}
	if len(p.Skills) > 0 {
		skills := make([]interface{}, len(p.Skills))
		for i, s := range p.Skills {
			skills[i] = s
		}
		out["skills"] = skills
	}
	return out
}

func checkSchema(schema string, payload map[string]interface{}) error {
	res, err := validation.ValidatePayload(schema, payload)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !res.Valid {
		return apperrors.NewUserValidationError(strings.Join(res.GetErrorMessages(), "; "))
	}
	return nil
}

func trimmed(payload map[string]interface{}, key string) string {
	s, _ := payload[key].(string)
	return strings.TrimSpace(s)
}

func stringList(v interface{}) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []interface{}:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
