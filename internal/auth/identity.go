package auth

// Identity is the authenticated caller of a request, taken from a validated token.
type Identity struct {
	Username string
	TokenID  string
}

// IdentityFromClaims builds the request identity from validated claims.
func IdentityFromClaims(c *Claims) Identity {
	return Identity{Username: c.Username, TokenID: c.ID}
}
