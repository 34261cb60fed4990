package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ReplicantCoder9000/projectSoulSync/client"
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			user, err := c.Register(ctx, username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "registered %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringP("username", "u", "", "Username (required)")
	cmd.Flags().StringP("email", "e", "", "Email (required)")
	cmd.Flags().StringP("password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			user, err := c.Login(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringP("email", "e", "", "Email (required)")
	cmd.Flags().StringP("password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			c.Logout()
			fmt.Fprintln(os.Stdout, "logged out")
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.Bootstrap(ctx); err != nil {
				return fmt.Errorf("session invalid, log in again: %w", err)
			}

			var req client.UpdateProfileRequest
			if cmd.Flags().Changed("username") {
				v, _ := cmd.Flags().GetString("username")
				req.Username = &v
			}
			if cmd.Flags().Changed("email") {
				v, _ := cmd.Flags().GetString("email")
				req.Email = &v
			}

			var user *client.User
			if req.Username != nil || req.Email != nil {
				user, err = c.UpdateProfile(ctx, req)
			} else {
				user, err = c.GetProfile(ctx)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "id:       %s\n", user.ID)
			fmt.Fprintf(os.Stdout, "username: %s\n", user.Username)
			fmt.Fprintf(os.Stdout, "email:    %s\n", user.Email)
			if user.LastLogin != nil {
				fmt.Fprintf(os.Stdout, "last login: %s\n", user.LastLogin.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringP("username", "u", "", "New username")
	cmd.Flags().StringP("email", "e", "", "New email")
	return cmd
}
