package service

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/shopupgh/shopup-api/internal/models"
	"github.com/shopupgh/shopup-api/internal/utils"
)

type fakeSellerDirectory struct {
	byEmail map[string]*models.Seller
	nextID  int
}

func newFakeSellerDirectory() *fakeSellerDirectory {
	return &fakeSellerDirectory{byEmail: map[string]*models.Seller{}}
}

func (f *fakeSellerDirectory) Create(s *models.Seller) error {
	if _, ok := f.byEmail[s.Email]; ok {
		return &pq.Error{Code: "23505"}
	}
	f.nextID++
	s.ID = fmt.Sprintf("seller-%d", f.nextID)
	s.IsActive = true
	cp := *s
	f.byEmail[s.Email] = &cp
	return nil
}

func (f *fakeSellerDirectory) GetByEmail(email string) (*models.Seller, error) {
	s, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSellerDirectory) GetByID(id string) (*models.Seller, error) {
	for _, s := range f.byEmail {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeSellerDirectory())

	_, err := svc.Register(&RegisterInput{Name: "", Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Register(&RegisterInput{Name: "Ama", Email: "not-an-email", Password: "longenough"})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Register(&RegisterInput{Name: "Ama", Email: "a@b.com", Password: "short"})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestRegisterAndLogin(t *testing.T) {
	utils.SetJWTSecret("auth-test-secret")
	svc := NewAuthService(newFakeSellerDirectory())

	seller, err := svc.Register(&RegisterInput{
		Name: "Ama Mensah", Email: "  Ama@Example.com ", Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, seller.ID)
	// Email is normalized and the raw password is never stored.
	require.Equal(t, "ama@example.com", seller.Email)
	require.NotEqual(t, "correct-horse", seller.PasswordHash)

	token, got, err := svc.Login("ama@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, seller.ID, got.ID)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, seller.ID, claims.SellerID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeSellerDirectory())

	_, err := svc.Register(&RegisterInput{Name: "Ama", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterInput{Name: "Kofi", Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, utils.ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	utils.SetJWTSecret("auth-test-secret")
	dir := newFakeSellerDirectory()
	svc := NewAuthService(dir)

	_, err := svc.Register(&RegisterInput{Name: "Ama", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, _, err = svc.Login("a@b.com", "wrong-password")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, _, err = svc.Login("missing@b.com", "longenough")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)

	// Deactivated accounts cannot log in, with the same opaque error.
	dir.byEmail["a@b.com"].IsActive = false
	_, _, err = svc.Login("a@b.com", "longenough")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
}
