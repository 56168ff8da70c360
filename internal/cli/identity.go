package cli

import (
	"fmt"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/storage/sqlite"
	"cashu-pos/pkg/logger"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/cobra"
)

// NewIdentityCommand creates the identity command. It prints the terminal's
// stable id and public key, generating them on first run. The operator of
// the main terminal reads the pubkey off this output and puts it in every
// sub-terminal's config.
func NewIdentityCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Print the terminal id and public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}
			log := logger.New("error", false)

			db, err := sqlite.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			sk, terminalID, err := bootstrapIdentity(cmd.Context(), sqlite.NewIdentityStore(db), log)
			if err != nil {
				return err
			}
			pk, err := nostr.GetPublicKey(sk)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "terminal_id: %s\n", terminalID)
			fmt.Fprintf(cmd.OutOrStdout(), "pubkey:      %s\n", pk)
			fmt.Fprintf(cmd.OutOrStdout(), "role:        %s\n", cfg.Terminal.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "merchant_id: %s\n", cfg.Terminal.MerchantID)
			return nil
		},
	}
}
