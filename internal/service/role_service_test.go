package service

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
	"github.com/noah-isme/edura-go-api/pkg/identity"
)

type roleFixture struct {
	service RoleService
	users   repository.UserRepository
	claims  identity.ClaimsAuthority
	audits  repository.AuditLogRepository
}

func setupRoleService(t *testing.T) roleFixture {
	t.Helper()

	db := setupServiceDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	users := repository.NewUserRepository(db)
	audits := repository.NewAuditLogRepository(db)
	claims := identity.NewClaimsAuthority(client)
	service := NewRoleService(users, claims, audits, zerolog.New(io.Discard))

	require.NoError(t, db.Create(&models.User{ID: "u9", Email: "u9@example.com", Role: models.RoleUser}).Error)

	return roleFixture{service: service, users: users, claims: claims, audits: audits}
}

func TestSetRoleBootstrapWithoutClaims(t *testing.T) {
	f := setupRoleService(t)

	err := f.service.SetRole(context.Background(), identity.Claims{}, "u9", models.RoleSuperadmin)
	require.NoError(t, err)

	role, err := f.claims.RoleClaim(context.Background(), "u9")
	require.NoError(t, err)
	require.Equal(t, models.RoleSuperadmin, role)

	user, err := f.users.GetByID(context.Background(), "u9")
	require.NoError(t, err)
	require.Equal(t, models.RoleSuperadmin, user.Role)

	entries, total, err := f.audits.List(context.Background(), repository.AuditLogFilter{Action: models.AuditActionSetAdminRole})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, models.AuditActorSystem, entries[0].ActorID)
}

func TestSetRoleRejectsNonSuperadmin(t *testing.T) {
	f := setupRoleService(t)

	caller := identity.Claims{Subject: "a1", Role: models.RoleAdmin}
	err := f.service.SetRole(context.Background(), caller, "u9", models.RoleSupport)
	require.ErrorIs(t, err, ErrNotSuperadmin)

	role, err := f.claims.RoleClaim(context.Background(), "u9")
	require.NoError(t, err)
	require.Empty(t, role, "rejected call must not touch claims")
}

func TestSetRoleBySuperadminRecordsActor(t *testing.T) {
	f := setupRoleService(t)

	caller := identity.Claims{Subject: "root", Role: models.RoleSuperadmin}
	require.NoError(t, f.service.SetRole(context.Background(), caller, "u9", models.RoleContentManager))

	user, err := f.users.GetByID(context.Background(), "u9")
	require.NoError(t, err)
	require.Equal(t, models.RoleContentManager, user.Role)

	entries, total, err := f.audits.List(context.Background(), repository.AuditLogFilter{EntityType: "user", EntityID: "u9"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "root", entries[0].ActorID)
	require.Equal(t, models.RoleContentManager, entries[0].Details["role"])
}

func TestSetRoleValidation(t *testing.T) {
	f := setupRoleService(t)
	caller := identity.Claims{Subject: "root", Role: models.RoleSuperadmin}

	err := f.service.SetRole(context.Background(), caller, "u9", "bogus")
	require.ErrorIs(t, err, ErrInvalidRole)

	err = f.service.SetRole(context.Background(), caller, "ghost", models.RoleAdmin)
	require.ErrorIs(t, err, ErrUnknownUser)

	err = f.service.SetRole(context.Background(), caller, "", models.RoleAdmin)
	require.ErrorIs(t, err, ErrUnknownUser)

	user, err := f.users.GetByID(context.Background(), "u9")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role, "failed validation must make no state change")
}

func TestRemoveRoleHasNoBootstrapException(t *testing.T) {
	f := setupRoleService(t)

	err := f.service.RemoveRole(context.Background(), identity.Claims{}, "u9")
	require.ErrorIs(t, err, ErrNotSuperadmin)

	caller := identity.Claims{Subject: "root", Role: models.RoleSuperadmin}
	require.NoError(t, f.service.SetRole(context.Background(), caller, "u9", models.RoleAdmin))
	require.NoError(t, f.service.RemoveRole(context.Background(), caller, "u9"))

	user, err := f.users.GetByID(context.Background(), "u9")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role)
}
