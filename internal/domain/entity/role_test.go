package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRole(t *testing.T) {
	tests := []struct {
		requested   Role
		want        Role
		registrable bool
	}{
		{"", RoleUser, true},
		{"user", RoleUser, true},
		{" Agent ", RoleAgent, true},
		{"admin", RoleAdmin, false},
		{"landlord", "landlord", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.requested), func(t *testing.T) {
			got := SignupRole(tt.requested)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.registrable, got.SelfRegistrable())
		})
	}
}

func TestRolesContains(t *testing.T) {
	staff := Roles{RoleAdmin}

	assert.True(t, staff.Contains(RoleAdmin))
	assert.False(t, staff.Contains(RoleAgent))
	assert.True(t, RoleAgent.IsValid())
	assert.False(t, Role("owner").IsValid())
}
