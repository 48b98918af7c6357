package repository

import (
	"context"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
)

// AdminUserRepository persists console identities. Rows only ever come
// from the configured allow-list; sign-in cannot mint an identity the
// allow-list does not name.
type AdminUserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.AdminUser) error
	FindByUsername(ctx context.Context, tx Tx, username string) (*model.AdminUser, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.AdminUser, error)
}
