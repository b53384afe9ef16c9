package cli

import (
	"github.com/spf13/cobra"
)

func newRegisterCmd(opts *Options) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account",
		Example: `  farmctl register --name Ana --email ana@farm.io --password s3cret-pass`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := opts.farm.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd, user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(opts *Options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := opts.farm.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			// The token itself stays in the token file
			return printJSON(cmd, map[string]any{
				"user":      session.User,
				"expiresAt": session.ExpiresAt,
				"tokenFile": opts.tokens.Path(),
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.farm.Logout(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"message": "Logged out"})
		},
	}
}
