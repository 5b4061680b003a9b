package server

import (
	"crypto/subtle"
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"golang.org/x/crypto/bcrypt"
)

// adminUser is the only basic auth user name accepted.
const adminUser = "admin"

// Auth protects mutating routes with basic auth checked against a bcrypt hash.
type Auth struct {
	passwordHash string
}

// NewAuth makes Auth for the given bcrypt hash, empty hash disables auth.
func NewAuth(passwordHash string) *Auth {
	return &Auth{passwordHash: passwordHash}
}

// Enabled reports whether auth is configured.
func (a *Auth) Enabled() bool { return a.passwordHash != "" }

// Middleware rejects requests without valid admin credentials, pass-through if auth disabled.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return rest.BasicAuth(a.check)(next)
}

// check always runs the bcrypt comparison to keep timing independent of the user name.
func (a *Auth) check(user, passwd string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(adminUser)) == 1
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(passwd)); err != nil {
		log.Printf("[DEBUG] auth failed for %q", user)
		return false
	}
	return userOK
}
