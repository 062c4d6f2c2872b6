package users_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devfolio/internal/testsupport"
	"devfolio/internal/users"
)

func TestFindByUsername(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("finds existing user", func(t *testing.T) {
		testUser := testsupport.CreateTestUser(t, db, "admin", "password123")

		foundUser, err := users.FindByUsername(db, "admin")

		require.NoError(t, err)
		assert.NotNil(t, foundUser)
		assert.Equal(t, testUser.Username, foundUser.Username)
		assert.Equal(t, testUser.ID, foundUser.ID)
	})

	t.Run("returns error for non-existent user", func(t *testing.T) {
		foundUser, err := users.FindByUsername(db, "nobody")

		assert.Error(t, err)
		assert.Nil(t, foundUser)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCreateUser(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("creates new user successfully", func(t *testing.T) {
		err := users.CreateUser(db, "newuser", "securepassword123")
		require.NoError(t, err)

		foundUser, err := users.FindByUsername(db, "newuser")
		require.NoError(t, err)
		assert.Equal(t, "newuser", foundUser.Username)
		assert.NotEmpty(t, foundUser.ID)
		assert.NotEmpty(t, foundUser.EncryptedPassword)
		assert.NotEqual(t, "securepassword123", foundUser.EncryptedPassword)
	})

	t.Run("returns error when user already exists", func(t *testing.T) {
		err := users.CreateUser(db, "existing", "password123")
		require.NoError(t, err)

		err = users.CreateUser(db, "existing", "password123")
		assert.Error(t, err)
		assert.ErrorIs(t, err, users.ErrUserExists)
	})

	t.Run("returns error for empty username", func(t *testing.T) {
		err := users.CreateUser(db, "", "password123")
		assert.Error(t, err)
	})

	t.Run("returns error for empty password", func(t *testing.T) {
		err := users.CreateUser(db, "nopassword", "")
		assert.Error(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("changes password successfully", func(t *testing.T) {
		err := users.CreateUser(db, "changepass", "oldpassword123")
		require.NoError(t, err)

		userBefore, err := users.FindByUsername(db, "changepass")
		require.NoError(t, err)
		oldEncryptedPassword := userBefore.EncryptedPassword

		err = users.ChangePassword(db, "changepass", "newpassword456")
		require.NoError(t, err)

		userAfter, err := users.FindByUsername(db, "changepass")
		require.NoError(t, err)
		assert.NotEqual(t, oldEncryptedPassword, userAfter.EncryptedPassword)
		assert.NotEmpty(t, userAfter.EncryptedPassword)
	})

	t.Run("returns error for non-existent user", func(t *testing.T) {
		err := users.ChangePassword(db, "nobody", "newpassword")
		assert.Error(t, err)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("returns error for empty password", func(t *testing.T) {
		err := users.CreateUser(db, "emptycheck", "password123")
		require.NoError(t, err)

		err = users.ChangePassword(db, "emptycheck", "")
		assert.Error(t, err)
	})
}

func TestVerifyCredentials(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("accepts correct password", func(t *testing.T) {
		err := users.CreateUser(db, "verifyme", "correct-horse")
		require.NoError(t, err)

		user, err := users.VerifyCredentials(db, "verifyme", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "verifyme", user.Username)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		err := users.CreateUser(db, "verifyme2", "correct-horse")
		require.NoError(t, err)

		user, err := users.VerifyCredentials(db, "verifyme2", "battery-staple")
		assert.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		user, err := users.VerifyCredentials(db, "ghost", "whatever")
		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestErrUserExists(t *testing.T) {
	assert.NotNil(t, users.ErrUserExists)
	assert.Equal(t, "user already exists", users.ErrUserExists.Error())
}
