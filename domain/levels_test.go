package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelValid(t *testing.T) {
	assert.False(t, Level(0).Valid())
	assert.True(t, Level(1).Valid())
	assert.True(t, Level(5).Valid())
	assert.False(t, Level(6).Valid())
	assert.False(t, Level(-1).Valid())
}

func TestLevelEconomics(t *testing.T) {
	cases := []struct {
		level   Level
		ceiling int64
		cost    int64
	}{
		{1, 5, 2},
		{2, 10, 4},
		{3, 15, 6},
		{4, 20, 8},
		{5, 25, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ceiling, tc.level.PriceCeiling())
		assert.Equal(t, tc.cost, tc.level.CreditCost())
	}
}

func TestActivityMembership(t *testing.T) {
	activity := &Activity{
		Owner:      "alice",
		MaxMembers: 2,
		Members:    []Address{"bob"},
		Whitelist:  []Address{"carol"},
	}

	assert.True(t, activity.HasMember("bob"))
	assert.False(t, activity.HasMember("carol"))

	assert.True(t, activity.IsWhitelisted("alice"), "owner is always allowed")
	assert.True(t, activity.IsWhitelisted("carol"))
	assert.False(t, activity.IsWhitelisted("bob"))

	assert.False(t, activity.IsFull())
	activity.Members = append(activity.Members, "dave")
	assert.True(t, activity.IsFull())
}
