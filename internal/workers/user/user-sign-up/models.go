// internal/workers/user/user-sign-up/models.go
package usersignup

import (
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/store"
)

// Input carries either an explicit user payload or the profile data
// extracted by intent detection. User wins when both are set.
type Input struct {
	User          map[string]interface{} `json:"user"`
	ExtractedData *models.ProfileData    `json:"extractedData"`
}

func (in *Input) Payload() map[string]interface{} {
	if len(in.User) > 0 {
		return in.User
	}
	if in.ExtractedData != nil {
		return store.ProfilePayload(*in.ExtractedData)
	}
	return nil
}

type Output struct {
	UserCreated bool         `json:"userCreated"`
	Message     string       `json:"message"`
	UserID      string       `json:"userId"`
	User        *models.User `json:"user"`
}
