package user

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Ada@Example.ORG ", "Ada Lovelace", "")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", u.Email().String())
	assert.Equal(t, "example.org", u.Email().Domain())
	assert.Equal(t, RoleMember, u.Role())
	assert.False(t, u.Role().CanPublish())
	assert.Equal(t, u.ID().String(), u.AuthorID().String())
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("not-an-email", "Ada", RoleEditor)
	assert.Equal(t, shared.CodeInvalidFormat, shared.ValidationCodeOf(err))

	_, err = NewUser("a..b@example.org", "Ada", RoleEditor)
	assert.Equal(t, "email", shared.ValidationFieldOf(err))

	_, err = NewUser("ada@example.org", strings.Repeat("n", 101), RoleEditor)
	assert.Equal(t, shared.CodeFieldTooLong, shared.ValidationCodeOf(err))

	_, err = NewUser("ada@example.org", "Ada", "owner")
	assert.Equal(t, shared.CodeInvalidValue, shared.ValidationCodeOf(err))
}

func TestUser_UpdateName(t *testing.T) {
	restore := timeutil.Freeze(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	defer restore()

	u, err := NewUser("ada@example.org", "Ada", RoleEditor)
	require.NoError(t, err)

	renamed, err := u.UpdateName("Ada King")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", renamed.Name())
	assert.True(t, renamed.UpdatedAt().After(u.UpdatedAt()), "frozen clock still yields a later updatedAt")

	again, err := renamed.UpdateName("Ada K.")
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt().After(renamed.UpdatedAt()))

	_, err = u.UpdateName("   ")
	assert.Equal(t, shared.CodeEmptyField, shared.ValidationCodeOf(err))
	assert.Equal(t, "Ada", u.Name())
}

func TestUser_ChangeEmail(t *testing.T) {
	u, err := NewUser("ada@example.org", "Ada", RoleAdmin)
	require.NoError(t, err)

	changed, err := u.ChangeEmail("ADA@civic.dev")
	require.NoError(t, err)
	assert.True(t, changed.Email().Equals(shared.Email("ada@civic.dev")))

	_, err = u.ChangeEmail("broken")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
