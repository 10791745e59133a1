package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/repositories"
	"github.com/desertthunder/openmusic/internal/services"
)

// UsersCreate registers a user directly against the database.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	identity := services.NewIdentityService(repositories.NewUserRepository(db), config.Auth.BcryptCost)
	id, err := identity.AddUser(ctx, models.NewUserFields{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Fullname: cmd.String("fullname"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("user created", "id", id)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"userId": id}, false)
	}
	return r.writePlain("✓ Created user %s (%s)\n", cmd.String("username"), id)
}
