package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"sieve.dev/pkg/sieve/internal/adapter"
)

const unknownVersion = "unknown"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Prints the sieve build version, the Go toolchain it was built with and the supported hash algorithms.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()

			cmd.Println(versionLine(info, ok))
			cmd.Println("hash algorithms:", strings.Join(adapter.HashAlgorithms(), ", "))
		},
	}
}

func versionLine(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil {
		return "sieve " + unknownVersion
	}

	version := info.Main.Version
	if version == "" || version == "(devel)" {
		version = unknownVersion
	}

	if info.GoVersion == "" {
		return "sieve " + version
	}

	return fmt.Sprintf("sieve %s (%s)", version, info.GoVersion)
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
