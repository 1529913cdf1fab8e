package service

import (
	"context"
	"errors"
	"fmt"

	"report-desk/internal/model"
	"report-desk/internal/report"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

// Signup creates an account. A duplicate email is rejected with a
// specific "already exists" condition; there is no merge logic.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.Email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:           report.NewID(),
		Name:         req.Name,
		EmployeeID:   req.EmployeeID,
		TeamName:     req.TeamName,
		Email:        req.Email,
		PasswordHash: string(hash),
		SavedColors:  model.ColorList{},
		Theme:        "light",
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("wrong password")
	}
	return &u, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpdateUser applies the mutable preference fields. Saved colors keep
// insertion order with duplicates dropped.
func (s *AuthService) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.EmployeeID != nil {
		u.EmployeeID = *req.EmployeeID
	}
	if req.TeamName != nil {
		u.TeamName = *req.TeamName
	}
	if req.DefaultTo != nil {
		u.DefaultTo = *req.DefaultTo
	}
	if req.DefaultCc != nil {
		u.DefaultCc = *req.DefaultCc
	}
	if req.Theme != nil {
		if *req.Theme != "light" && *req.Theme != "dark" {
			return nil, fmt.Errorf("%w: theme must be light or dark", ErrInvalidInput)
		}
		u.Theme = *req.Theme
	}
	if req.SavedColors != nil {
		colors := model.ColorList{}
		for _, c := range *req.SavedColors {
			colors = colors.Add(c)
		}
		u.SavedColors = colors
	}

	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
