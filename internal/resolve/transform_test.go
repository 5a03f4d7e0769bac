package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransforms(t *testing.T) {
	tests := []struct {
		transform string
		in        string
		want      string
	}{
		{"pascalize", "users", "Users"},
		{"pascalize", "user-profiles", "UserProfiles"},
		{"pascalize", "user_profiles", "UserProfiles"},
		{"pascalize", "userProfile", "UserProfile"},
		{"pascalize", "user profile", "UserProfile"},
		{"camelize", "user-profiles", "userProfiles"},
		{"camelize", "UserProfiles", "userProfiles"},
		{"snakeize", "user-profiles", "user_profiles"},
		{"snakeize", "UserProfiles", "user_profiles"},
		{"snakeize", "user  profiles", "user_profiles"},
		{"lowercase", "Users", "users"},
		{"uppercase", "users", "USERS"},
		{"singular", "users", "user"},
		{"singular", "Users", "User"},
		{"singularize", "categories", "category"},
		{"plural", "user", "users"},
		{"pluralize", "category", "categories"},
		{"namespacify", "users", "Users"},
		{"namespacify", "admin/user-tools", `Admin\UserTools`},
		{"namespacify", "/admin//users/", `Admin\Users`},
	}

	for _, tt := range tests {
		t.Run(tt.transform+"/"+tt.in, func(t *testing.T) {
			got, ok := Apply(tt.transform, tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_Unknown(t *testing.T) {
	got, ok := Apply("shout", "users")
	assert.False(t, ok)
	assert.Equal(t, "users", got)
}

func TestPascalize_Empty(t *testing.T) {
	assert.Equal(t, "", Pascalize(""))
	assert.Equal(t, "", Camelize(""))
}

func TestIsTransform(t *testing.T) {
	assert.True(t, IsTransform("namespacify"))
	assert.False(t, IsTransform("Pascalize"), "names are case sensitive")
}
