package scopes_test

import (
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestForRole(t *testing.T) {
	ano := &kernel.AuthContext{UserID: "u1", Role: "ano", Scopes: scopes.ForRole(iam.RoleANO)}
	assert.True(t, ano.HasScope(scopes.SubmissionsWrite))
	assert.False(t, ano.HasScope(scopes.SelectionsFinalize))

	co := &kernel.AuthContext{UserID: "u2", Role: "co", Scopes: scopes.ForRole(iam.RoleCO)}
	assert.True(t, co.HasAllScopes(scopes.CampsWrite, scopes.SelectionsFinalize, scopes.InstituteWrite))
	assert.False(t, co.HasScope(scopes.UsersWrite))

	admin := scopes.ForRole(iam.RoleAdmin)
	admin[0] = "mutated"
	assert.Equal(t, scopes.UsersRead, scopes.ForRole(iam.RoleAdmin)[0])

	assert.Empty(t, scopes.ForRole("ghost"))
}

func TestParseRole(t *testing.T) {
	r, err := iam.ParseRole("  CO ")
	assert.NoError(t, err)
	assert.Equal(t, iam.RoleCO, r)
	assert.True(t, r.IsReviewer())

	_, err = iam.ParseRole("cadet")
	assert.Error(t, err)
}
