package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sieve.dev/pkg/sieve/internal/domain"
)

var strictExtensionFlag bool

// imagesCmd represents the images command.
var imagesCmd = newImagesCmd()

func newImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images <root> [pattern...]",
		Short: "Quarantine files that are not valid images",
		Long:  imagesLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.FindInvalidImages(cmd.Context(), domain.ImagesArgs{
				RunArgs:         runArgs(args[0]),
				Patterns:        parsePatterns(args[1:]),
				StrictExtension: viper.GetBool(strictExtensionConfigKey),
			})

			return err
		},
	}

	configureImagesFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(imagesCmd)
}

func configureImagesFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&strictExtensionFlag, strictExtensionFlagName, defaultStrictExtension, "treat a file extension that does not match the image content as invalid")
	bindFlagToConfig(cmd.Flags().Lookup(strictExtensionFlagName), strictExtensionConfigKey)
}

// parsePatterns falls back to the configured patterns when none are given.
func parsePatterns(args []string) []string {
	if len(args) > 0 {
		patterns := make([]string, 0, len(args))

		return append(patterns, args...)
	}

	return viper.GetStringSlice(imagePatternsConfigKey)
}
