package identity

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_BearerCredentialIsStable(t *testing.T) {
	r := NewResolver()

	req1 := httptest.NewRequest("GET", "/", nil)
	req1.Header.Set(HeaderAuthorization, "Bearer token-abc")
	req2 := httptest.NewRequest("GET", "/", nil)
	req2.Header.Set(HeaderAuthorization, "Bearer token-abc")

	id1, minted1 := r.Resolve(req1)
	id2, minted2 := r.Resolve(req2)

	assert.Equal(t, id1, id2, "same credential resolves to the same owner")
	assert.True(t, strings.HasPrefix(id1, "user:"))
	assert.False(t, minted1)
	assert.False(t, minted2)
}

func TestResolve_DifferentCredentialsDiffer(t *testing.T) {
	r := NewResolver()

	req1 := httptest.NewRequest("GET", "/", nil)
	req1.Header.Set(HeaderAuthorization, "Bearer token-abc")
	req2 := httptest.NewRequest("GET", "/", nil)
	req2.Header.Set(HeaderAuthorization, "Bearer token-xyz")

	id1, _ := r.Resolve(req1)
	id2, _ := r.Resolve(req2)
	assert.NotEqual(t, id1, id2)
}

func TestResolve_CredentialNeverAppearsInOwnerID(t *testing.T) {
	r := NewResolver()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderAuthorization, "Bearer super-secret-token")

	id, _ := r.Resolve(req)
	assert.NotContains(t, id, "super-secret-token")
}

func TestResolve_AnonymousHeaderWins(t *testing.T) {
	r := NewResolver()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderAnonymousID, "device-123")

	id, minted := r.Resolve(req)
	assert.Equal(t, "anon:device-123", id)
	assert.False(t, minted)
}

func TestResolve_MintsAnonymousIDOnFirstContact(t *testing.T) {
	r := NewResolver()

	req := httptest.NewRequest("GET", "/", nil)
	id, minted := r.Resolve(req)

	require.True(t, minted)
	assert.True(t, strings.HasPrefix(id, "anon:"))
	assert.Greater(t, len(id), len("anon:"))
}

func TestResolve_AuthorizationTakesPrecedence(t *testing.T) {
	r := NewResolver()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderAuthorization, "Bearer token-abc")
	req.Header.Set(HeaderAnonymousID, "device-123")

	id, _ := r.Resolve(req)
	assert.True(t, strings.HasPrefix(id, "user:"))
}
