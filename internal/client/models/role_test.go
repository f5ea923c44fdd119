package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToServerRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"assistant", "agent"},
		{"bot", "agent"},
		{"agent", "agent"},
		{"user", "user"},
		{"system", "system"},
		{"narrator", "narrator"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToServerRole(tt.in))
		})
	}
}

func TestFromServerRole(t *testing.T) {
	assert.Equal(t, RoleAssistant, FromServerRole("agent"))
	assert.Equal(t, RoleUser, FromServerRole("user"))
	assert.Equal(t, RoleSystem, FromServerRole("system"))
	assert.Equal(t, Role("narrator"), FromServerRole("narrator"))
}

func TestRole_Persistable(t *testing.T) {
	assert.True(t, RoleUser.Persistable())
	assert.True(t, RoleAssistant.Persistable())
	assert.False(t, RoleError.Persistable())
}
