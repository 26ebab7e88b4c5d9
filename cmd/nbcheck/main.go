package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nbcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nbcheck",
	Short: "Notebook correctness checker",
	Long:  `nbcheck verifies notebook serializations: variable redefinitions, dependency cycles, setup-cell misuse and formatting problems`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
