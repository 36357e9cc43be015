package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNavigationPolicyEmptyIsNil(t *testing.T) {
	policy, err := NewNavigationPolicy(nil)
	require.NoError(t, err)
	assert.Nil(t, policy)

	policy, err = NewNavigationPolicy([]string{})
	require.NoError(t, err)
	assert.Nil(t, policy)
}

func TestNewNavigationPolicyRejectsBadPattern(t *testing.T) {
	_, err := NewNavigationPolicy([]string{"https://[invalid"})
	assert.Error(t, err)
}

func TestNavigationPolicyAllows(t *testing.T) {
	policy, err := NewNavigationPolicy([]string{
		"https://app.example.com/*",
		"https://docs.example.com",
	})
	require.NoError(t, err)

	assert.True(t, policy.Allows("https://app.example.com/login"))
	assert.True(t, policy.Allows("https://docs.example.com"))
	assert.False(t, policy.Allows("https://evil.test"))
	assert.False(t, policy.Allows("http://app.example.com/login"))
}

func TestNilPolicyAllowsEverything(t *testing.T) {
	var policy *NavigationPolicy
	assert.True(t, policy.Allows("https://anywhere.test"))
	assert.Nil(t, policy.Patterns())
}
