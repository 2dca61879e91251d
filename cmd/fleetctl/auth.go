package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetflow/internal/console"
)

func (c *cli) loginCmd() *cobra.Command {
	var form console.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			if _, err := c.api.Login(cmd.Context(), req.Email, req.Password); err != nil {
				return err
			}
			if err := c.saveSession(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s\n", c.session.Email())
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.file.clear(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	var form console.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a console account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			user, err := c.api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Registered %s as %s. Please log in.\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password again")
	cmd.Flags().StringVar(&form.Role, "role", "Dispatcher", "Manager, Dispatcher, Safety Officer or Financial Analyst")
	return cmd
}

func (c *cli) forgotPasswordCmd() *cobra.Command {
	var form console.ForgotPasswordForm
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Mail a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			resp, err := c.api.ForgotPassword(cmd.Context(), req.Email)
			if err != nil {
				return err
			}
			if err := c.file.savePendingReset(req.Email); err != nil {
				return err
			}
			fmt.Fprintln(c.out, resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	return cmd
}

func (c *cli) resetPasswordCmd() *cobra.Command {
	var form console.ResetPasswordForm
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Redeem a reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Email == "" {
				form.Email = c.file.pendingReset()
			}
			req, err := form.Payload()
			if err != nil {
				return err
			}
			resp, err := c.api.ResetPassword(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := c.file.clearPendingReset(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email (defaults to the last forgot-password request)")
	cmd.Flags().StringVar(&form.OTP, "otp", "", "code from the reset email")
	cmd.Flags().StringVar(&form.NewPassword, "new-password", "", "new password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "new password again")
	return cmd
}
