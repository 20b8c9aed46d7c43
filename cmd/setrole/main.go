// Command setrole bootstraps the first superadmin: it assigns a role to a
// user directly against the backing stores, without a caller credential.
//
// Usage:
//
//	setrole <USER_ID> [ROLE]
//
// Valid roles: superadmin, admin, content_manager, support, user.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/config"
	"github.com/noah-isme/edura-go-api/internal/database"
	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/pkg/identity"
)

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: setrole <USER_ID> [ROLE]")
		os.Exit(1)
	}

	userID := args[0]
	role := models.RoleAdmin
	if len(args) > 1 {
		role = args[1]
	}

	if !models.ValidRole(role) {
		fmt.Fprintf(os.Stderr, "invalid role %q; valid roles: superadmin, admin, content_manager, support, user\n", role)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	claimsAuthority := identity.NewClaimsAuthority(redisClient)
	roleService := service.NewRoleService(userRepo, claimsAuthority, auditRepo, logger)

	// No caller claims: this is the bootstrap path, audited as system.
	if err := roleService.SetRole(context.Background(), identity.Claims{}, userID, role); err != nil {
		log.Fatalf("failed to set role: %v", err)
	}

	fmt.Printf("user %s is now %s; the change takes effect on their next sign-in\n", userID, role)
}
