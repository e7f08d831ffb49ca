// Package cmd provides the root command and CLI setup for sieve.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"sieve.dev/pkg/sieve/internal/adapter"
	"sieve.dev/pkg/sieve/internal/controller"
	"sieve.dev/pkg/sieve/internal/domain"
	m "sieve.dev/pkg/sieve/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

var parallelFlag int
var dryRunFlag bool
var reportFlag string
var progressStepFlag int
var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(fsAdapter, reportStore, ui)
}

const quarantineHelp = `Quarantined files are moved, never deleted: a file at <root>/sub/x.jpg
ends up at <root>/removed/sub/x.jpg. A run refuses to start when
<root>/removed already exists.`

const rootLongDescription = `Sieve scans a directory tree and quarantines redundant or broken files
by moving them into a "removed" tree that mirrors their original location.

` + quarantineHelp

const copiesLongDescription = `Find files with identical content under root. In every group of
duplicates the file with the longest directory path is kept; the others
are quarantined. All regular files are scanned.

` + quarantineHelp

const imagesLongDescription = `Find files under root that do not decode as images and quarantine them.
Patterns filter file names (case-insensitive); the default is *.jpg.

` + quarantineHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "sieve",
		Short:         "Quarantine duplicate and broken files",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel workers for hashing or decoding")
	bindFlagToConfig(flags.Lookup(parallelFlagName), runParallelConfigKey)

	flags.BoolVar(&dryRunFlag, dryRunFlagName, viper.GetBool(runDryRunConfigKey), "report what would be quarantined without moving anything")
	bindFlagToConfig(flags.Lookup(dryRunFlagName), runDryRunConfigKey)

	flags.StringVar(&reportFlag, reportFlagName, viper.GetString(reportPathConfigKey), "write a YAML report of the run to this file")
	bindFlagToConfig(flags.Lookup(reportFlagName), reportPathConfigKey)

	flags.IntVar(&progressStepFlag, progressStepFlagName, viper.GetInt(progressStepConfigKey), "progress reporting granularity in percent")
	bindFlagToConfig(flags.Lookup(progressStepFlagName), progressStepConfigKey)

	flags.StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func runArgs(root string) domain.RunArgs {
	return domain.RunArgs{
		Root:         m.Path(root),
		Threads:      viper.GetInt(runParallelConfigKey),
		DryRun:       viper.GetBool(runDryRunConfigKey),
		ProgressStep: viper.GetInt(progressStepConfigKey),
		Report:       m.Path(viper.GetString(reportPathConfigKey)),
	}
}
