package files

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"mycloud-go/internal/auth"
	"mycloud-go/internal/models"
)

func TestAuthorize(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	owner := &auth.Principal{ID: ownerID, Username: "owner"}
	stranger := &auth.Principal{ID: strangerID, Username: "stranger"}
	admin := &auth.Principal{ID: uuid.New(), Username: "admin", IsSuperuser: true}

	file := &models.File{ID: uuid.New(), OwnerID: ownerID, OriginalName: "a.jpg"}

	ownerScoped := []Action{ActionRead, ActionRename, ActionComment, ActionDelete}

	tests := []struct {
		name      string
		principal *auth.Principal
		action    Action
		wantErr   error
	}{
		{"link download is open to anonymous", nil, ActionReadViaLink, nil},
		{"link download ignores ownership", stranger, ActionReadViaLink, nil},
		{"owner reads own file", owner, ActionRead, nil},
		{"owner renames own file", owner, ActionRename, nil},
		{"owner comments own file", owner, ActionComment, nil},
		{"owner deletes own file", owner, ActionDelete, nil},
		{"superuser reads any file", admin, ActionRead, nil},
		{"superuser writes any file", admin, ActionDelete, nil},
		{"stranger cannot read", stranger, ActionRead, ErrForbidden},
		{"stranger cannot rename", stranger, ActionRename, ErrForbidden},
		{"stranger cannot comment", stranger, ActionComment, ErrForbidden},
		{"stranger cannot delete", stranger, ActionDelete, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, file, tt.action)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	t.Run("anonymous denied for every owner-scoped action", func(t *testing.T) {
		for _, action := range ownerScoped {
			assert.ErrorIs(t, Authorize(nil, file, action), ErrUnauthenticated, "action %s", action)
		}
	})
}
