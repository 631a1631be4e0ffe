package permit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
)

func TestRegistryOwnerIsPermitted(t *testing.T) {
	reg := NewRegistry("operator")

	assert.True(t, reg.IsPermitted("operator"))
	assert.False(t, reg.IsPermitted("stranger"))
}

func TestRegistryAddPermittedAddress(t *testing.T) {
	reg := NewRegistry("operator")

	require.NoError(t, reg.AddPermittedAddress("operator", "relay"))
	assert.True(t, reg.IsPermitted("relay"))

	err := reg.AddPermittedAddress("stranger", "other")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	assert.False(t, reg.IsPermitted("other"))

	err = reg.AddPermittedAddress("operator", "")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestRegistryAuthorize(t *testing.T) {
	reg := NewRegistry("operator")
	require.NoError(t, reg.AddPermittedAddress("operator", "relay"))

	assert.NoError(t, reg.Authorize("alice", "alice"), "principals act for themselves")
	assert.NoError(t, reg.Authorize("relay", "alice"), "granted relays may forward")
	assert.NoError(t, reg.Authorize("operator", "alice"))

	err := reg.Authorize("mallory", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	assert.Error(t, reg.Authorize("", "alice"))
	assert.Error(t, reg.Authorize("alice", ""))
}
