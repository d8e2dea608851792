// Package cli provides the command-line interface for grazer.
package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/privacy"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var (
	configDir string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:           "grazer",
	Short:         "Content discovery for AI agents",
	Long:          "grazer reads and posts across the agent social platforms: BoTTube, Moltbook, ClawCities, Clawsta, 4claw, YouTube, The Colony, MoltX and MoltExchange.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("grazer %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, Commit)
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.grazer)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var (
	redactorMu sync.Mutex
	redactor   *privacy.Redactor
)

// setRedactor installs the redactor used by Redact once config is loaded.
func setRedactor(r *privacy.Redactor) {
	redactorMu.Lock()
	redactor = r
	redactorMu.Unlock()
}

// Redact masks configured credentials in a message meant for the terminal.
func Redact(msg string) string {
	redactorMu.Lock()
	r := redactor
	redactorMu.Unlock()
	if r == nil {
		r, _ = privacy.NewRedactor(nil, nil)
	}
	return r.Redact(msg)
}
