package auth

// Claims representa la identidad extraída del token.
// Username es la identidad canónica de la plataforma (única, inmutable).
type Claims struct {
	Username string
	Email    string
	Role     string
}
