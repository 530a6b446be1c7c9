package auth

// Claims es el principal autenticado. UserID es el único dato que usa el dominio
// para decidir propiedad; Email es informativo.
type Claims struct {
	UserID string
	Email  string
}
