package users

import "time"

// User es el dueño de mascotas. El motor solo necesita comparar IDs;
// username/email son informativos.
type User struct {
	ID       string
	Username string
	Email    string

	CreatedAt time.Time
}
