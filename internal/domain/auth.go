package domain

// Identity is the authentication state of a session.
type Identity struct {
	Authenticated bool
	Username      string
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = Identity{}
