package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
	"github.com/noah-isme/edura-go-api/pkg/identity"
)

// ErrNotSuperadmin indicates the caller lacks the role required to assign roles.
var ErrNotSuperadmin = errors.New("only superadmin may assign roles")

// ErrInvalidRole indicates the requested role is not one of the assignable values.
var ErrInvalidRole = errors.New("invalid role")

// ErrUnknownUser indicates the target user id does not name an existing identity.
var ErrUnknownUser = errors.New("target user not found")

// RoleService mutates a user's role claim and its queryable mirror. The two
// writes plus the audit entry are a best-effort sequence, not one
// transaction. A freshly assigned role only shows up on the target's next
// credential refresh.
type RoleService interface {
	SetRole(ctx context.Context, caller identity.Claims, targetUserID, newRole string) error
	RemoveRole(ctx context.Context, caller identity.Claims, targetUserID string) error
}

type roleService struct {
	users  repository.UserRepository
	claims identity.ClaimsAuthority
	audits repository.AuditLogRepository
	logger zerolog.Logger
}

// NewRoleService constructs the role assignment service.
func NewRoleService(users repository.UserRepository, claims identity.ClaimsAuthority, audits repository.AuditLogRepository, logger zerolog.Logger) RoleService {
	return &roleService{
		users:  users,
		claims: claims,
		audits: audits,
		logger: logger.With().Str("component", "role_service").Logger(),
	}
}

func (s *roleService) SetRole(ctx context.Context, caller identity.Claims, targetUserID, newRole string) error {
	if !bootstrapAllowed(caller) && caller.Role != models.RoleSuperadmin {
		return ErrNotSuperadmin
	}

	return s.assign(ctx, caller, targetUserID, newRole)
}

// RemoveRole demotes the target back to the plain user role. Unlike SetRole
// there is no bootstrap exception: the caller must already be superadmin.
func (s *roleService) RemoveRole(ctx context.Context, caller identity.Claims, targetUserID string) error {
	if caller.Role != models.RoleSuperadmin {
		return ErrNotSuperadmin
	}

	return s.assign(ctx, caller, targetUserID, models.RoleUser)
}

func (s *roleService) assign(ctx context.Context, caller identity.Claims, targetUserID, newRole string) error {
	if targetUserID == "" {
		return ErrUnknownUser
	}

	if !models.ValidRole(newRole) {
		return ErrInvalidRole
	}

	exists, err := s.users.Exists(ctx, targetUserID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownUser
	}

	if err := s.claims.SetRoleClaim(ctx, targetUserID, newRole); err != nil {
		return err
	}

	if err := s.users.UpsertRole(ctx, targetUserID, newRole); err != nil {
		return err
	}

	actor := caller.Subject
	if actor == "" {
		actor = models.AuditActorSystem
	}

	entry := models.AuditLog{
		Action:     models.AuditActionSetAdminRole,
		EntityType: "user",
		EntityID:   targetUserID,
		ActorID:    actor,
		Details:    datatypes.JSONMap{"role": newRole},
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("target", targetUserID).Msg("failed to append role audit entry")
	}

	s.logger.Info().
		Str("target", targetUserID).
		Str("role", newRole).
		Str("actor", actor).
		Msg("role assigned; takes effect on next token refresh")

	return nil
}

// bootstrapAllowed permits a caller without any role claim to assign roles,
// so the very first superadmin can be established. Disable this once a
// superadmin exists.
func bootstrapAllowed(caller identity.Claims) bool {
	return !caller.HasRole()
}
