package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists = errors.New("username or email already registered")
	// ErrInvalidCredentials is deliberately identical for unknown
	// username, wrong password and deactivated accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("role must be patient, doctor or admin")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Username == "" || req.Email == "" || req.FullName == "" {
		return nil, errors.New("username, email and full_name are required")
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if !models.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		FullName:     req.FullName,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		Address:      req.Address,
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &dto.RegisterResponse{Message: "User registered successfully", UserID: user.ID}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(&user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Role:        user.Role,
		FullName:    user.FullName,
	}, nil
}

// ResolveSubject loads the token subject and rejects accounts that no
// longer exist or were deactivated after the token was issued.
// Read-only; safe for unlimited parallel invocation.
func (s *AuthService) ResolveSubject(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
