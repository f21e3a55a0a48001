package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopupgh/shopup-api/internal/models"
	"github.com/shopupgh/shopup-api/internal/repository"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// SellerDirectory is the data-layer contract for seller accounts.
type SellerDirectory interface {
	Create(s *models.Seller) error
	GetByEmail(email string) (*models.Seller, error)
	GetByID(id string) (*models.Seller, error)
}

// AuthService handles seller registration and login.
type AuthService struct {
	sellers SellerDirectory
}

// NewAuthService constructs a new AuthService.
func NewAuthService(sellers SellerDirectory) *AuthService {
	return &AuthService{sellers: sellers}
}

// RegisterInput carries seller registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	CampusID *string
}

// Register creates a seller account with a bcrypt-hashed password.
func (s *AuthService) Register(in *RegisterInput) (*models.Seller, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", utils.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	seller := &models.Seller{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        in.Phone,
		CampusID:     in.CampusID,
	}

	if err := s.sellers.Create(seller); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrEmailTaken
		}
		log.Error().Err(err).Msg("seller registration failed")
		return nil, utils.ErrStore
	}

	log.Info().Str("seller_id", seller.ID).Msg("seller registered")
	return seller, nil
}

// Login verifies credentials and returns a signed token plus the seller.
func (s *AuthService) Login(email, password string) (string, *models.Seller, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	seller, err := s.sellers.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("seller lookup failed")
			return "", nil, utils.ErrStore
		}
		return "", nil, utils.ErrInvalidCredentials
	}

	if !seller.IsActive {
		log.Warn().Str("seller_id", seller.ID).Msg("login attempt on inactive account")
		return "", nil, utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(seller.ID, seller.Email)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("seller_id", seller.ID).Msg("login successful")
	return token, seller, nil
}
