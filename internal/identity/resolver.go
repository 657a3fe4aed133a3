// Package identity maps inbound credentials to stable owner identifiers.
// The rest of the system treats the result as an opaque string.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Headers consulted for owner resolution.
const (
	HeaderAuthorization = "Authorization"
	HeaderAnonymousID   = "X-Anonymous-Id"
)

// Resolver turns an inbound request credential into an owner ID. Durable
// identities hash the bearer credential; anonymous callers are addressed by
// a client-held anonymous id, minted on first contact.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the owner ID for the request and whether the ID was newly
// minted (the caller should echo a minted anonymous ID back to the client).
func (r *Resolver) Resolve(req *http.Request) (ownerID string, minted bool) {
	if auth := req.Header.Get(HeaderAuthorization); auth != "" {
		credential := strings.TrimPrefix(auth, "Bearer ")
		sum := sha256.Sum256([]byte(credential))
		return "user:" + hex.EncodeToString(sum[:16]), false
	}

	if anon := req.Header.Get(HeaderAnonymousID); anon != "" {
		return "anon:" + anon, false
	}

	return "anon:" + uuid.NewString(), true
}
