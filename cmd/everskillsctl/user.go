package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository/jsonfile"
	"everskills/coaching-app/internal/service"
)

// placeholderSecret signs nothing: user add never issues a token.
const placeholderSecret = "everskillsctl"

func newUserCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts in the JSON store.",
	}

	var in service.RegisterInput
	var role string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an account of any role, admins included.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would create %s account %s (dry run, nothing written)\n", role, domain.NormalizeEmail(in.Email))
				return nil
			}
			store, err := opts.store()
			if err != nil {
				return err
			}
			secret := opts.cfg.JWT.Secret
			if secret == "" {
				secret = placeholderSecret
			}
			auth := service.NewAuthService(jsonfile.NewUserRepository(store), secret, time.Hour)

			in.Role = domain.Role(role)
			user, err := auth.CreateUser(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "Full name.")
	add.Flags().StringVar(&in.FirstName, "first-name", "", "First name used in messages.")
	add.Flags().StringVar(&in.Email, "email", "", "Login email.")
	add.Flags().StringVar(&in.Password, "password", "", "Initial password.")
	add.Flags().StringVar(&role, "role", string(domain.RoleLearner), "learner, coach or admin.")
	for _, f := range []string{"name", "email", "password"} {
		_ = add.MarkFlagRequired(f)
	}

	cmd.AddCommand(add)
	return cmd
}
