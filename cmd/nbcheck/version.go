package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nbcheck/internal/version"
)

var versionAsJSON bool

func init() {
	versionCmd.Flags().BoolVar(&versionAsJSON, "json", false, "emit version info as JSON")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show nbcheck build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		commit := strings.TrimSpace(version.GitCommit)
		date := strings.TrimSpace(version.BuildDate)
		out := cmd.OutOrStdout()

		if versionAsJSON {
			payload := struct {
				Tool      string `json:"tool"`
				Version   string `json:"version"`
				GitCommit string `json:"git_commit,omitempty"`
				BuildDate string `json:"build_date,omitempty"`
			}{Tool: "nbcheck", Version: v, GitCommit: commit, BuildDate: date}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}

		fmt.Fprintf(out, "nbcheck %s\n", v)
		if commit != "" {
			fmt.Fprintf(out, "commit: %s\n", commit)
		}
		if date != "" {
			fmt.Fprintf(out, "built:  %s\n", date)
		}
		return nil
	},
}
