package user

import (
	"context"
	"strings"

	"medicart-be/internal/logger"
	"medicart-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, phoneNumber, name string) (*User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates the user or overwrites the name of the existing one.
func (s *service) Register(ctx context.Context, phoneNumber, name string) (*User, error) {
	phoneNumber = utils.NormalizePhone(phoneNumber)
	name = strings.TrimSpace(name)

	if phoneNumber == "" {
		return nil, ErrPhoneRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	u, err := s.repo.Upsert(ctx, phoneNumber, name)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("register service completed",
		zap.Int("user_id", u.ID),
		zap.String("phone_number", phoneNumber),
	)
	return u, nil
}

func (s *service) GetByPhone(ctx context.Context, phoneNumber string) (*User, error) {
	phoneNumber = utils.NormalizePhone(phoneNumber)
	if phoneNumber == "" {
		return nil, ErrPhoneRequired
	}
	return s.repo.FindByPhone(ctx, phoneNumber)
}
