package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Config string
}

// NewRootCommand creates the root command for the posd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "posd",
		Short: "Cashu POS terminal daemon",
		Long: "posd runs a point-of-sale terminal that accepts Cashu ecash, " +
			"syncs catalog and transaction state with sibling terminals over " +
			"Nostr relays, and queues payments while offline.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "path to config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewIdentityCommand(opts))

	return cmd
}
