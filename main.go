package main

import (
	"log"
	"time"

	"github.com/fmpickleball/federation-api/config"
	_ "github.com/fmpickleball/federation-api/docs"
	"github.com/fmpickleball/federation-api/internal/club"
	"github.com/fmpickleball/federation-api/internal/credential"
	"github.com/fmpickleball/federation-api/internal/user"
	"github.com/fmpickleball/federation-api/routes"
)

// @title Pickleball Federation API
// @version 1.0
// @description REST backend for the federation platform: memberships, clubs and digital player credentials.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.Role{}, &user.RefreshToken{},
		&credential.DigitalCredential{},
		&club.Club{}, &club.ClubMember{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	if err := seedRoles(); err != nil {
		log.Fatalf("Role seeding failed: %v", err)
	}

	credRepo := credential.NewCredentialRepository(config.DB)
	expiryWorker := credential.NewExpiryWorker(credRepo, time.Hour)
	if err := expiryWorker.Start(); err != nil {
		log.Fatalf("Failed to start expiry worker: %v", err)
	}
	defer func() { _ = expiryWorker.Stop() }()

	r := routes.SetupRoutes(config.DB, cfg)

	log.Printf("Starting server on port %s in %s mode", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// seedRoles makes sure the fixed role set exists before anyone registers.
func seedRoles() error {
	for _, name := range []string{user.RolePlayer, user.RoleAdmin, user.RoleState, user.RoleClub} {
		if err := config.DB.Where(user.Role{Name: name}).FirstOrCreate(&user.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
