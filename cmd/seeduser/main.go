// Command seeduser creates or resets an admin account. Used for initial
// bootstrap and for recovering locked-out deployments.
package main

import (
	"flag"

	"digitask/internal/config"
	"digitask/internal/infra"
	"digitask/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "login username")
	fullName := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("hash failed")
	}

	var user model.User
	err = db.Where("username = ?", *username).First(&user).Error
	if err == nil {
		user.PasswordHash = string(hash)
		user.Role = model.RoleAdmin
		user.Active = true
		if err := db.Save(&user).Error; err != nil {
			log.Fatal().Err(err).Msg("update failed")
		}
		log.Info().Str("username", *username).Msg("admin password reset")
		return
	}

	user = model.User{
		Username:     *username,
		FullName:     *fullName,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal().Err(err).Msg("create failed")
	}
	log.Info().Str("username", *username).Str("id", user.ID.String()).Msg("admin user created")
}
