package auth

import "github.com/google/uuid"

// Principal is the resolved identity of a requester. A nil *Principal is an
// anonymous request; credential parsing itself happens in the JWT middleware,
// never here.
type Principal struct {
	ID          uuid.UUID
	Username    string
	IsSuperuser bool
}
