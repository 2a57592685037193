// internal/workers/user/user-sign-up/service.go
package usersignup

import (
	"context"

	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/store"
)

type ServiceDependencies struct {
	Users  models.UserRepository
	Logger logger.Logger
}

type Service struct {
	accounts *store.Accounts
	logger   logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		accounts: store.NewAccounts(deps.Users, deps.Logger),
		logger:   deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := s.accounts.SignUp(ctx, input.Payload())
	if err != nil {
		return nil, err
	}

	out := &Output{
		UserCreated: res.Created,
		Message:     res.Message,
		User:        res.User,
	}
	if res.User != nil {
		out.UserID = res.User.ID
	}
	return out, nil
}
