package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrorMatchesSentinel(t *testing.T) {
	err := NewNotFound("creature", "yeti")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, "creature 'yeti' not found", err.Error())

	err = NewAlreadyExists("user", "bob")
	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, "user 'bob' already exists", err.Error())
}

func TestUserPatchApply(t *testing.T) {
	name := "renamed"
	u := User{ID: "1", Name: "bob", Roles: []string{RoleUser}}

	out := UserPatch{Name: &name}.Apply(u)
	assert.Equal(t, "renamed", out.Name)
	assert.Equal(t, []string{RoleUser}, out.Roles)
	assert.Equal(t, "bob", u.Name)

	out = UserPatch{Roles: []string{RoleAdmin}}.Apply(u)
	assert.Equal(t, "bob", out.Name)
	assert.True(t, out.HasRole(RoleAdmin))
	assert.False(t, out.HasRole(RoleUser))
}

func TestCreaturePatchLeavesUnsetFields(t *testing.T) {
	area := "Himalayas"
	c := Creature{Name: "yeti", Country: "CN", Area: "Tibet", AKA: "Abominable Snowman"}

	out := CreaturePatch{Area: &area}.Apply(c)
	assert.Equal(t, Creature{Name: "yeti", Country: "CN", Area: "Himalayas", AKA: "Abominable Snowman"}, out)
}
