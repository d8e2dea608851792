package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/config"
	"github.com/ppiankov/grazer/internal/platform"
	"github.com/ppiankov/grazer/internal/store"
)

const staleDays = 7

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, credentials and local dependencies",
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	ok := true
	dir := resolveConfigDir()

	// Config dir
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		printCheck(false, "config directory %s (run 'grazer init')", dir)
		ok = false
	} else {
		printCheck(true, "config directory %s", dir)
	}

	// Config file
	cfg, err := config.Load(dir)
	switch {
	case err != nil:
		printCheck(false, "config: %v", err)
		return fmt.Errorf("some checks failed")
	case cfg.Missing:
		printCheck(false, "config file (none found, using defaults)")
		ok = false
	default:
		printCheck(true, "config %s (%d platform sections, %d feeds)", cfg.Path, len(cfg.Platforms), len(cfg.Feeds))
	}

	// Keychain
	secrets, err := openSecrets(cfg.Dir)
	if err != nil {
		printInfo("keychain unavailable: %v", err)
		secrets = nil
	} else {
		printCheck(true, "keychain")
	}

	// Credentials, informational: discovery works without most of them.
	creds := cfg.Credentials(secrets)
	known := platform.Known()
	for _, name := range known {
		if creds[name] == "" {
			printInfo("%s: no API key", name)
		}
	}
	printCheck(true, "credentials for %d/%d platforms", len(creds), len(known))

	// ClawHub CLI
	if path, err := exec.LookPath(cfg.ClawHub.Bin); err != nil {
		printInfo("%s not on PATH (clawhub commands disabled)", cfg.ClawHub.Bin)
	} else {
		printCheck(true, "clawhub cli %s", path)
	}

	// Image generation
	if cfg.ImageGen.LLMURL != "" {
		printCheck(true, "imagegen llm %s (%s)", cfg.ImageGen.LLMURL, cfg.ImageGen.LLMModel)
	} else {
		printInfo("imagegen: templates only (no llm_url)")
	}

	// History
	if _, err := os.Stat(cfg.History.Path); err == nil {
		db, err := store.Open(cfg.History.Path)
		if err != nil {
			printCheck(false, "history %s: %v", cfg.History.Path, err)
			ok = false
		} else {
			defer func() { _ = db.Close() }()
			printCheck(true, "history %s", cfg.History.Path)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			checkHistoryHealth(ctx, db)
		}
	} else if cfg.History.Enabled {
		printInfo("history enabled, database not created yet")
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

func checkHistoryHealth(ctx context.Context, db *store.Store) {
	counts, err := db.Counts(ctx)
	if err != nil || len(counts) == 0 {
		return
	}
	staleThreshold := time.Now().AddDate(0, 0, -staleDays)
	for _, c := range counts {
		if c.LastSeen.Before(staleThreshold) {
			daysAgo := int(time.Since(c.LastSeen).Hours() / 24)
			printInfo("stale: %s, nothing recorded for %d days", c.Platform, daysAgo)
		}
	}
}

func printCheck(pass bool, format string, args ...any) {
	mark := "FAIL"
	if pass {
		mark = " OK "
	}
	fmt.Printf("[%s] %s\n", mark, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Printf("[INFO] %s\n", fmt.Sprintf(format, args...))
}
