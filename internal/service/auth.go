package service

import (
	"context"
	"fmt"

	"stress-index/internal/model"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct{ users UserFinder }

func NewAuthService(users UserFinder) *AuthService { return &AuthService{users: users} }

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("wrong password")
	}
	return u, nil
}
