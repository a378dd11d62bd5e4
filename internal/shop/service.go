package shop

import (
	"context"
	"errors"
	"strings"
	"time"

	"medicart-be/internal/auth"
	"medicart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, name, password string) (*LoginResult, error)
	Provision(ctx context.Context, name, password string) (*Shop, error)
}

// TokenIssuer signs shop identity tokens.
type TokenIssuer interface {
	Generate(shopID, shopName string) (string, time.Time, error)
}

type service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Shop"),
		zap.String("method", "Login"),
		zap.String("shop_name", name),
	)

	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrInvalidInput
	}

	sh, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, ErrShopNotFound) {
		log.Warn("login for unknown shop")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(password, sh.PasswordHash) {
		log.Warn("password not match")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(sh.ID.String(), sh.Name)
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return nil, err
	}

	log.Info("shop logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Shop: sh}, nil
}

func (s *service) Provision(ctx context.Context, name, password string) (*Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	sh, err := s.repo.Upsert(ctx, name, hash)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("shop provisioned", zap.String("shop_name", sh.Name))
	return sh, nil
}
