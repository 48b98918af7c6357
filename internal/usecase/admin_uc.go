package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

// Compile-time check
var _ AdminUseCase = (*adminUC)(nil)

// AllowListEntry is one configured console identity: the username, its
// bcrypt password hash, and the role it gets. The allow-list is the only
// source of admin accounts; signing in never provisions one.
type AllowListEntry struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

type AdminUseCase interface {
	// Login verifies credentials against the allow-list and returns the
	// stored admin identity. Unknown usernames fail with
	// domain.ErrNotAllowListed even when the password would match some
	// entry; bad passwords fail with domain.ErrBadCredentials.
	Login(ctx context.Context, username, password string) (*model.AdminUser, error)
	// SyncAllowList reconciles admin_users with the configured allow-list
	// at startup, creating missing rows and updating drifted roles.
	SyncAllowList(ctx context.Context) error
}

type adminUC struct {
	admins    repository.AdminUserRepository
	allowList []AllowListEntry
	log       *zerolog.Logger
}

func NewAdminUseCase(admins repository.AdminUserRepository, allowList []AllowListEntry, logger *zerolog.Logger) *adminUC {
	l := logger.With().Str("component", "AdminUseCase").Logger()
	return &adminUC{admins: admins, allowList: allowList, log: &l}
}

func (uc *adminUC) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	entry := uc.lookup(username)
	if entry == nil {
		return nil, domain.ErrNotAllowListed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrBadCredentials
	}

	admin, err := uc.admins.FindByUsername(ctx, repository.NoTX, username)
	if errors.Is(err, domain.ErrNotFound) {
		// Row missing despite the allow-list entry: the startup sync has
		// not run against this store yet. Create it here, gated on the
		// allow-list check above.
		admin = &model.AdminUser{
			ID:       uuid.NewString(),
			Username: entry.Username,
			Role:     entry.Role,
		}
		if err := uc.admins.Save(ctx, repository.NoTX, admin); err != nil {
			return nil, err
		}
		return admin, nil
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (uc *adminUC) SyncAllowList(ctx context.Context) error {
	for _, entry := range uc.allowList {
		if entry.Role == "" {
			entry.Role = model.AdminRoleOperator
		}
		existing, err := uc.admins.FindByUsername(ctx, repository.NoTX, entry.Username)
		if errors.Is(err, domain.ErrNotFound) {
			admin := &model.AdminUser{
				ID:       uuid.NewString(),
				Username: entry.Username,
				Role:     entry.Role,
			}
			if err := uc.admins.Save(ctx, repository.NoTX, admin); err != nil {
				return err
			}
			uc.log.Info().Str("username", entry.Username).Str("role", entry.Role).Msg("admin user provisioned")
			continue
		}
		if err != nil {
			return err
		}
		if existing.Role != entry.Role {
			existing.Role = entry.Role
			if err := uc.admins.Save(ctx, repository.NoTX, existing); err != nil {
				return err
			}
			uc.log.Info().Str("username", entry.Username).Str("role", entry.Role).Msg("admin role updated")
		}
	}
	return nil
}

func (uc *adminUC) lookup(username string) *AllowListEntry {
	for i := range uc.allowList {
		if uc.allowList[i].Username == username {
			return &uc.allowList[i]
		}
	}
	return nil
}
