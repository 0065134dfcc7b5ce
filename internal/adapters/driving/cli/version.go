package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{annotationBootstrap: bootstrapNone},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("scribe version %s\n", version)
		if verbose {
			info, _ := debug.ReadBuildInfo()
			for _, line := range buildDetails(info) {
				cmd.Println("  " + line)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildDetails describes the toolchain and VCS state recorded in the
// binary. info may be nil.
func buildDetails(info *debug.BuildInfo) []string {
	lines := []string{"go: " + runtime.Version(), "platform: " + runtime.GOOS + "/" + runtime.GOARCH}
	if info == nil {
		return lines
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		if modified == "true" {
			revision += " (modified)"
		}
		lines = append(lines, "commit: "+revision)
	}
	return lines
}
