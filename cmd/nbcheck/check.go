package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nbcheck/internal/diag"
	"nbcheck/internal/diagfmt"
	"nbcheck/internal/driver"
	"nbcheck/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <notebook.json|notebook.yaml>",
	Short: "Run correctness checks on a notebook serialization",
	Long:  `Run the rule engine against a notebook serialization document and report redefined variables, dependency cycles, setup-cell misuse, runtime output and formatting problems`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("config", "", "path to a toml check configuration")
	checkCmd.Flags().Int("context", 1, "context lines around each finding in pretty output")
	checkCmd.Flags().Bool("no-fixes", false, "hide fix hints in pretty output")
	checkCmd.Flags().Bool("stop-on-breaking", false, "stop checking at the first breaking diagnostic")
	checkCmd.Flags().Bool("disk-cache", false, "cache check results on disk, keyed by notebook content")
}

// runCheck executes the "check" command: it loads the notebook, runs the rule
// engine, renders diagnostics in the chosen format, and exits non-zero when
// any breaking diagnostic was found.
func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	noFixes, err := cmd.Flags().GetBool("no-fixes")
	if err != nil {
		return fmt.Errorf("failed to get no-fixes flag: %w", err)
	}
	stopOnBreaking, err := cmd.Flags().GetBool("stop-on-breaking")
	if err != nil {
		return fmt.Errorf("failed to get stop-on-breaking flag: %w", err)
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	var cfg engine.Config
	if configPath != "" {
		cfg, err = engine.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}
	if stopOnBreaking {
		cfg.EarlyStopping.StopOnBreaking = true
	}
	eng, err := engine.FromConfig(cfg)
	if err != nil {
		return err
	}

	opts := driver.Options{Engine: eng}
	if enableDiskCache {
		cache, err := driver.OpenDiskCache("nbcheck")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	result, err := driver.CheckFile(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	shown := result.Diagnostics
	if maxDiagnostics > 0 && maxDiagnostics < len(shown) {
		shown = shown[:maxDiagnostics]
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Notebook, shown, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   contextLines,
			ShowFixes: !noFixes,
		})
		if !quiet {
			printSummary(result, len(shown))
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Diagnostics, diagfmt.JSONOpts{Max: maxDiagnostics}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.HasBreaking() {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

func printSummary(result *driver.Result, shown int) {
	breaking := 0
	for _, d := range result.Diagnostics {
		if d.Severity == diag.SevBreaking {
			breaking++
		}
	}
	total := len(result.Diagnostics)
	if total == 0 {
		fmt.Fprintf(os.Stdout, "%s: no problems found\n", result.Notebook.Filename)
		return
	}
	if shown > 0 {
		fmt.Fprintln(os.Stdout)
	}
	fmt.Fprintf(os.Stdout, "%d problems (%d breaking)", total, breaking)
	if shown < total {
		fmt.Fprintf(os.Stdout, ", %d shown", shown)
	}
	if result.FromCache {
		fmt.Fprint(os.Stdout, " [cached]")
	}
	fmt.Fprintln(os.Stdout)
}
