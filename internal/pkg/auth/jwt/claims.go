package jwt

import "github.com/golang-jwt/jwt"

// Claims is the payload carried by the service's bearer credentials.
// The token is opaque to clients; only the server inspects it.
type Claims struct {
	jwt.StandardClaims

	// Username identifies the account the credential was issued to.
	Username string `json:"username"`
}
