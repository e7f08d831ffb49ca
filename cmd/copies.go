package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sieve.dev/pkg/sieve/internal/adapter"
	"sieve.dev/pkg/sieve/internal/domain"
)

var hashFlag string

// copiesCmd represents the copies command.
var copiesCmd = newCopiesCmd()

func newCopiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copies <root>",
		Short: "Quarantine files with duplicate content",
		Long:  copiesLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.FindCopies(cmd.Context(), domain.CopiesArgs{
				RunArgs:       runArgs(args[0]),
				HashAlgorithm: viper.GetString(hashAlgorithmConfigKey),
			})

			return err
		},
	}

	configureCopiesFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(copiesCmd)
}

func configureCopiesFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&hashFlag, hashFlagName, adapter.DefaultHashAlgorithm, "content digest algorithm ("+strings.Join(adapter.HashAlgorithms(), ", ")+")")
	bindFlagToConfig(cmd.Flags().Lookup(hashFlagName), hashAlgorithmConfigKey)
}
