package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/pkg/config"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newPublishDueCommand promotes scheduled stories whose publish date has
// passed. It is meant to be run from cron.
func newPublishDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish-due",
		Short: "Publish scheduled stories whose publish date has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPostgres(func(db *gorm.DB, log *zap.Logger) error {
				published, err := repositories.NewPostgresStoryRepository(db).PublishDue(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				log.Info("Scheduled stories published", zap.Int64("count", published))
				return nil
			})
		},
	}
}

const (
	usernameFlag = "username"
	emailFlag    = "email"
	passwordFlag = "password"
)

var adminFlags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{
		Name:  usernameFlag,
		Value: "",
		Usage: "Username of the new admin (required)",
	},
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email of the new admin (required)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Password of the new admin, at least 6 characters (required)",
	},
}

// newCreateAdminCommand bootstraps an account holding the reader and admin
// roles. Registration only ever grants reader.
func newCreateAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username := adminFlags[usernameFlag].GetString()
			email := adminFlags[emailFlag].GetString()
			password := adminFlags[passwordFlag].GetString()
			if username == "" || email == "" || password == "" {
				return errors.New("--username, --email and --password are required")
			}
			if len(password) < 6 {
				return models.ErrPasswordTooShort
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			return withPostgres(func(db *gorm.DB, log *zap.Logger) error {
				users := repositories.NewPostgresUserRepository(db)
				user := &models.User{Username: username, Email: email, Password: string(hash)}
				if err := users.CreateUserWithRoles(cmd.Context(), user, models.RoleAdmin); err != nil {
					return err
				}
				log.Info("Admin account created", zap.Uint("user_id", user.ID), zap.String("username", username))
				return nil
			})
		},
	}
	cobraflags.RegisterMap(cmd, adminFlags)
	return cmd
}

func withPostgres(fn func(*gorm.DB, *zap.Logger) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := config.InitPostgres(cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(db, log)
}
