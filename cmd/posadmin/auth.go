package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/transport"
)

func newLoginCmd(c *cli) *cobra.Command {
	var token, user, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token for later commands",
		Long: "Stores the token given with --token, or signs in with --user and\n" +
			"--password and stores the token the backend issues.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token = strings.TrimSpace(token)
			if (token == "") == (user == "") {
				return errors.New("give either --token or --user")
			}
			tc, err := c.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if token == "" {
				req := domain.LoginRequest{Username: user, Password: password}
				if err := pkg.Validate(req); err != nil {
					return err
				}
				resp, err := transport.Post[domain.TokenResponse](ctx, tc, domain.PathLogin, req, nil)
				if err != nil {
					return err
				}
				token = resp.Token
			}
			if err := tc.Session().SetToken(ctx, token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed in")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token to store")
	cmd.Flags().StringVar(&user, "user", "", "user name to sign in with")
	cmd.Flags().StringVar(&password, "password", "", "password to sign in with")
	cmd.MarkFlagsMutuallyExclusive("token", "user")
	cmd.MarkFlagsRequiredTogether("user", "password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc, err := c.client()
			if err != nil {
				return err
			}
			if err := tc.Session().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the subject and expiry of the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc, err := c.client()
			if err != nil {
				return err
			}
			claims, err := tc.Session().Claims(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), claims)
		},
	}
}
