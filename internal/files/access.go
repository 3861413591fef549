package files

import (
	"mycloud-go/internal/auth"
	"mycloud-go/internal/models"
)

// Action is an operation a principal wants to perform on a file.
type Action int

const (
	// ActionReadViaLink is a download through the special link. The link
	// itself is the credential.
	ActionReadViaLink Action = iota
	// ActionRead covers metadata fetch, listing, and owner-scoped download.
	ActionRead
	ActionRename
	ActionComment
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionReadViaLink:
		return "read_via_link"
	case ActionRead:
		return "read"
	case ActionRename:
		return "rename"
	case ActionComment:
		return "comment"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Authorize decides whether principal may perform action on file. Rules are
// evaluated in order:
//
//  1. Link downloads are always allowed; possession of the token is the
//     credential.
//  2. Anonymous principals are rejected for every owner-scoped action.
//  3. Superusers may read and write any file.
//  4. Everyone else only touches their own files. Read and write are gated
//     identically; there is no read-only sharing between ordinary users
//     outside the special link.
func Authorize(principal *auth.Principal, file *models.File, action Action) error {
	if action == ActionReadViaLink {
		return nil
	}
	if principal == nil {
		return ErrUnauthenticated
	}
	if principal.IsSuperuser {
		return nil
	}
	if file != nil && file.OwnerID == principal.ID {
		return nil
	}
	return ErrForbidden
}
