package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"campus/internal/auth"
	"campus/internal/domain"
	"campus/internal/repository"
)

// AccountService регистрация и вход: профиль + bcrypt-хэш пароля,
// на выходе подписанный токен
type AccountService struct {
	profiles repository.ProfileRepository
	tokens   *auth.TokenAuthority
}

func NewAccountService(profiles repository.ProfileRepository, tokens *auth.TokenAuthority) *AccountService {
	return &AccountService{profiles: profiles, tokens: tokens}
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput поля регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
	College  string
}

// Register создаёт профиль и выпускает токен. Новый профиль всегда
// не верифицирован; роль по умолчанию — student.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.Profile, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrInvalidInput
	}
	if in.Role == "" {
		in.Role = domain.RoleStudent
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	p := domain.Profile{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		College:      in.College,
		IsVerified:   false,
		PasswordHash: string(hash),
	}
	if err := s.profiles.Create(ctx, &p); err != nil {
		return nil, "", err
	}
	token, err := s.issue(&p)
	if err != nil {
		return nil, "", err
	}
	return &p, token, nil
}

// Login проверяет пароль и выпускает токен
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidInput
	}
	p, err := s.profiles.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(p)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func (s *AccountService) issue(p *domain.Profile) (string, error) {
	return s.tokens.Issue(domain.Principal{ID: p.ID, Role: p.Role, Verified: p.IsVerified})
}
