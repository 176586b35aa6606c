package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"evo/internal/auth"
	"evo/internal/database"
	"evo/internal/database/migration"
	"evo/internal/repository/postgres"
	"evo/internal/service"
)

var (
	flagAdminName     string
	flagAdminEmail    string
	flagAdminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long:  "Create an administrator account. Missing values are asked for interactively.",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&flagAdminName, "name", "", "Display name")
	createAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&flagAdminPassword, "password", "", "Password (prompted when empty)")
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	in := service.RegisterInput{
		Name:     flagAdminName,
		Email:    flagAdminEmail,
		Password: flagAdminPassword,
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		if err := promptAdmin(&in); err != nil {
			return err
		}
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(cmd.Context(), db, log, cfg.Database.Host); err != nil {
		return err
	}

	// Account creation does not issue tokens.
	svc := service.NewAuthService(postgres.NewUserPostgres(db), nil, auth.NoopDenylist{})
	u, err := svc.CreateAdmin(cmd.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return fmt.Errorf("an account with email %s already exists", in.Email)
		}
		return err
	}

	fmt.Println(successStyle.Render("  Admin created"))
	fmt.Println(mutedStyle.Render("  id:    ") + u.ID)
	fmt.Println(mutedStyle.Render("  email: ") + u.Email)
	return nil
}

func promptAdmin(in *service.RegisterInput) error {
	var confirm string
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	fmt.Println(headerStyle.Render("  New administrator"))
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name).Validate(required("name")),
			huh.NewInput().Title("Email").Value(&in.Email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password).Validate(required("password")),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
				Validate(func(s string) error {
					if s != in.Password {
						return errors.New("passwords do not match")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}
