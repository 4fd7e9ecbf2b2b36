package services

import (
	"testing"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func Test_Login(t *testing.T) {
	require.NoError(t, config.InitConfig())

	seedAdmin := func(t *testing.T, s *UserService) {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, s.db.Create(&models.User{
			Username:   "admin",
			Email:      "admin@khmerdownload.com",
			Password:   string(hashed),
			Role:       models.RoleAdmin,
			IsVerified: true,
		}).Error)
	}

	t.Run("Succeed", func(t *testing.T) {
		s := NewUserService(testDB(t), nil, nil)
		seedAdmin(t, s)

		result, err := s.Login("admin", "admin123")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, models.RoleAdmin, result.User.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		s := NewUserService(testDB(t), nil, nil)
		seedAdmin(t, s)

		_, err := s.Login("admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		s := NewUserService(testDB(t), nil, nil)

		_, err := s.Login("ghost", "admin123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("OTPOnlyAccountHasNoPassword", func(t *testing.T) {
		s := NewUserService(testDB(t), nil, nil)
		require.NoError(t, s.db.Create(&models.User{
			Username: "dara",
			Email:    "dara@example.com",
			Role:     models.RoleUser,
		}).Error)

		_, err := s.Login("dara", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
