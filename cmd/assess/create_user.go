package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jamescw/unicef-assessment-tool/internal/database"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user in the configured database",
	Long: `Create a user account. Admin accounts can only be created this way.

Example:
  assess create-user --email admin@example.org --password 'long-secret' --role admin`,
	RunE: runCreateUser,
}

func init() {
	f := createUserCmd.Flags()
	f.String("email", "", "account email")
	f.String("password", "", "account password")
	f.String("role", string(models.RoleRespondent), "role: admin or respondent")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createUserCmd)
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	if !cfg.HasDatabase() {
		return eris.New("create-user: DATABASE_URL is not set")
	}

	f := cmd.Flags()
	email, _ := f.GetString("email")
	password, _ := f.GetString("password")
	role, _ := f.GetString("role")

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return eris.Wrap(err, "create-user: connect")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return eris.Wrap(err, "create-user: migrate")
	}

	authService := services.NewAuthService(repository.NewRepositories(db.DB), cfg.JWTSecret, appLog)
	user, err := authService.CreateUser(cmd.Context(), &models.RegisterRequest{
		Email:    email,
		Password: password,
		Role:     models.UserRole(role),
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
