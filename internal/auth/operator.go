package auth

import (
	"crypto/subtle"

	"github.com/user/log-vault/internal/domain"
)

// OperatorAuth checks the static credential pairs that gate the privileged
// read path. This path is deliberately lower assurance than the signed
// token: plain shared passwords, exact match, provisioned once at startup.
type OperatorAuth struct {
	creds map[string]string
}

// NewOperatorAuth copies the credential mapping so later mutation of the
// caller's map cannot change what authenticates.
func NewOperatorAuth(creds map[string]string) *OperatorAuth {
	c := make(map[string]string, len(creds))
	for user, pass := range creds {
		c[user] = pass
	}
	return &OperatorAuth{creds: c}
}

// Authenticate returns domain.ErrUnauthorized on any mismatch. An unknown
// username and a wrong password take the same code path and produce the
// same error, so the response never narrows an attacker's search.
func (a *OperatorAuth) Authenticate(username, password string) error {
	expected, known := a.creds[username]
	match := subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
	if !known || !match {
		return domain.ErrUnauthorized
	}
	return nil
}
