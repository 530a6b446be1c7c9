package pets

import (
	"fmt"
	"strings"
)

// AssertOwner falla con ErrForbidden si actorUserID no es el dueño.
// Se invoca antes de cualquier mutación (crear y leer quedan exentos).
func AssertOwner(p Pet, actorUserID string) error {
	actorUserID = strings.TrimSpace(actorUserID)
	if actorUserID == "" || p.OwnerUserID != actorUserID {
		return fmt.Errorf("%w: user %q does not own pet %s", ErrForbidden, actorUserID, p.ID)
	}
	return nil
}
