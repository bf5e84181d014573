package snippets

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upnPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}@contoso\.com$`)

func TestNewSampleUser(t *testing.T) {
	user := NewSampleUser("contoso.com")

	require.NotNil(t, user.PasswordProfile)
	assert.Regexp(t, upnPattern, user.UserPrincipalName)

	local := strings.SplitN(user.UserPrincipalName, "@", 2)[0]
	assert.Len(t, local, 36)
	assert.Equal(t, local, user.MailNickname)
	assert.Equal(t, "SAMPLE "+local, user.DisplayName)
	assert.True(t, user.AccountEnabled)
	assert.Len(t, user.PasswordProfile.Password, 16)
	assert.False(t, user.PasswordProfile.ForceChangePasswordNextSignIn)
}

func TestNewSampleUserIsUnique(t *testing.T) {
	a := NewSampleUser("contoso.com")
	b := NewSampleUser("contoso.com")

	assert.NotEqual(t, a.UserPrincipalName, b.UserPrincipalName)
	assert.NotEqual(t, a.PasswordProfile.Password, b.PasswordProfile.Password)
}

func TestNewSampleUserWithoutTenant(t *testing.T) {
	user := NewSampleUser("")
	assert.True(t, strings.HasSuffix(user.UserPrincipalName, "@"))
}
