package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lborres/taskpulse/core"
	"github.com/lborres/taskpulse/pkg/crypto"
)

func newAdminTokenCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Generate an admin token and the hash to configure",
		Long: `admin-token prints a fresh admin bearer token and its argon2id hash.
Only the hash goes into the configuration (admin.token_hash or
TASKPULSE_ADMIN_TOKEN_HASH); hand the token to whoever runs admin requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				var err error
				if token, err = crypto.GenerateAdminToken(); err != nil {
					return fmt.Errorf("failed to generate token: %w", err)
				}
			}

			hash, err := core.NewArgon2().Hash(token)
			if err != nil {
				return fmt.Errorf("failed to hash token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token: %s\n", token)
			fmt.Fprintf(out, "hash:  %s\n", hash)
			fmt.Fprintf(out, "fingerprint: %s\n", crypto.Fingerprint(token))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "hash this token instead of generating one")
	return cmd
}
