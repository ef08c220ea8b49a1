package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/permissions"
)

func TestGet(t *testing.T) {
	data := permissions.Get()

	assert.NotNil(t, data)
	assert.False(t, data.Skip)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "public catalogue", path: "/v1/listings", method: "GET", wantSkip: true, wantRoles: []string{}},
		{name: "trailing slash", path: "/v1/listings/", method: "GET", wantSkip: true, wantRoles: []string{}},
		{name: "hosts create listings", path: "/v1/listings", method: "POST", wantRoles: []string{"host", "admin"}},
		{name: "status change", path: "/v1/bookings/{id}/status", method: "PATCH", wantRoles: []string{"host", "admin"}},
		{name: "any caller books", path: "/v1/bookings", method: "POST", wantRoles: []string{}},
		{name: "unknown route", path: "/v1/nowhere", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)
			assert.Equal(t, tt.wantRoles, permission.Permissions)
		})
	}
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))

	assert.Error(t, err)
}

func TestParse_DuplicateAndTruncated(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints":[
		{"path":"/v1/listings","method":"POST","permissions":["host"]},
		{"path":"/v1/listings/","method":"post","permissions":["admin"]}
	]}`))
	assert.ErrorContains(t, err, "duplicate permission for POST /v1/listings")

	_, err = permissions.Parse([]byte(`{"endpoints":`))
	assert.Error(t, err)
}

func TestPermission_Allows(t *testing.T) {
	hostsOnly := permissions.Permission{Permissions: []string{"host", "admin"}}

	assert.True(t, hostsOnly.Allows("host"))
	assert.False(t, hostsOnly.Allows("guest"))
	assert.True(t, permissions.Permission{}.Allows("guest"))
	assert.True(t, permissions.Permission{Skip: true, Permissions: []string{"admin"}}.Allows(""))
}
