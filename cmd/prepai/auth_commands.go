package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prepai/internal/api"
	"prepai/internal/identity"
)

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSignupCommand(ctx),
		newLoginCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
	}
}

func newSignupCommand(ctx *commandContext) *cobra.Command {
	var req api.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a gateway account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
				return errors.New("--name, --email and --password are required")
			}
			client, err := ctx.gatewayClient("")
			if err != nil {
				return err
			}
			token, err := client.Signup(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			return storeToken(cmd, ctx, token, "Signed up as")
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var req api.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the credential token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Email) == "" || req.Password == "" {
				return errors.New("--email and --password are required")
			}
			client, err := ctx.gatewayClient("")
			if err != nil {
				return err
			}
			token, err := client.Login(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return storeToken(cmd, ctx, token, "Logged in as")
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	return cmd
}

func storeToken(cmd *cobra.Command, ctx *commandContext, token, verb string) error {
	return ctx.withIdentity(func(r *identity.Resolver) error {
		userID, err := r.Login(token)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, userID)
		return nil
	})
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withIdentity(func(r *identity.Resolver) error {
				if err := r.Logout(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out; sessions will be recorded under your guest id")
				return nil
			})
		},
	}
}

type whoamiView struct {
	UserID  string           `json:"userId"`
	Source  identity.Source  `json:"source"`
	Profile *api.UserProfile `json:"profile,omitempty"`
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity sessions are recorded under",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, token, err := ctx.currentIdentity()
			if err != nil {
				return err
			}
			view := whoamiView{UserID: id.UserID, Source: id.Source}
			if token != "" {
				client, err := ctx.gatewayClient(token)
				if err != nil {
					return err
				}
				if profile, err := client.Me(cmd.Context()); err == nil {
					view.Profile = profile
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "profile unavailable: %v\n", err)
				}
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:   %s\n", identityLabel(id))
			if view.Profile != nil {
				fmt.Fprintf(out, "Name:   %s\n", view.Profile.Name)
				fmt.Fprintf(out, "Email:  %s\n", view.Profile.Email)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Account profile utilities",
	}

	var req api.UpdateProfileRequest
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change the account name or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Email) == "" {
				return errors.New("nothing to update; pass --name and/or --email")
			}
			id, token, err := ctx.currentIdentity()
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("%s is a guest identity; run prepai login first", id.UserID)
			}
			client, err := ctx.gatewayClient(token)
			if err != nil {
				return err
			}
			profile, err := client.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile: %s <%s>\n", profile.Name, profile.Email)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&req.Name, "name", "", "New display name")
	updateCmd.Flags().StringVar(&req.Email, "email", "", "New account email")

	profileCmd.AddCommand(updateCmd)
	return profileCmd
}
