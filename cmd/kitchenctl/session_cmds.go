package main

import (
	"fmt"

	"momskitchen/internal/models"
	"momskitchen/internal/validation"

	"github.com/spf13/cobra"
)

func newRegisterCmd(k *kitchen) *cobra.Command {
	var email, password, confirm, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = password
			}
			if err := validation.ValidateRegistration(email, password, confirm, name); err != nil {
				return err
			}
			user, err := k.session.Register(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Signed in as %s\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newLoginCmd(k *kitchen) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateLogin(email, password); err != nil {
				return err
			}
			user, err := k.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newLogoutCmd(k *kitchen) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := k.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(k *kitchen) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := k.session.CurrentUser()
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func newProfileCmd(k *kitchen) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update fields of the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.UserPatch
			for flag, field := range map[string]**string{
				"name":     &patch.Name,
				"email":    &patch.Email,
				"avatar":   &patch.Avatar,
				"bio":      &patch.Bio,
				"location": &patch.Location,
			} {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					*field = &v
				}
			}
			if err := validation.ValidateProfile(patch); err != nil {
				return err
			}
			user, err := k.session.UpdateProfile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email")
	cmd.Flags().String("avatar", "", "Avatar URL")
	cmd.Flags().String("bio", "", "Short bio")
	cmd.Flags().String("location", "", "Neighborhood or city")
	return cmd
}
