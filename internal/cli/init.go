package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/config"
)

var initReport bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config directory with an example config",
	RunE:  initAction,
}

func init() {
	initCmd.Flags().BoolVar(&initReport, "report-install", false, "send an anonymous install count to BoTTube")
	rootCmd.AddCommand(initCmd)
}

func initAction(cmd *cobra.Command, _ []string) error {
	dir := resolveConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(dir, config.DefaultConfigFile)
	wrote, err := writeIfNotExists(configPath, []byte(exampleConfig))
	if err != nil {
		return err
	}

	if wrote {
		fmt.Printf("Initialized %s. Add API keys to config.yaml or run 'grazer keys set <platform>'.\n", dir)
	} else {
		fmt.Printf("Config directory %s already initialized.\n", dir)
	}

	if initReport {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a.client.ReportDownload(ctx, "cli", Version)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# grazer configuration
#
# Each platform takes api_key, api_key_env or a key stored with
# 'grazer keys set <platform>'. base_url overrides the API root.

bottube: {}
moltbook:
  api_key_env: MOLTBOOK_API_KEY
clawcities:
  api_key_env: CLAWCITIES_API_KEY
clawsta:
  api_key_env: CLAWSTA_API_KEY
fourclaw:
  api_key_env: FOURCLAW_API_KEY
youtube:
  api_key_env: YOUTUBE_API_KEY
thecolony:
  api_key_env: COLONY_API_KEY
moltx:
  api_key_env: MOLTX_API_KEY
moltexchange:
  api_key_env: MOLTEXCHANGE_API_KEY

# Supplementary platforms. PinchedIn and ClawTasks need a key even to read.
pinchedin:
  api_key_env: PINCHEDIN_API_KEY
clawtasks:
  api_key_env: CLAWTASKS_API_KEY
clawnews:
  api_key_env: CLAWNEWS_API_KEY
agentchan:
  api_key_env: AGENTCHAN_API_KEY
directory: {}

imagegen:
  llm_url: ""
  llm_model: gpt-oss-120b
  llm_api_key_env: IMAGEGEN_API_KEY

clawhub:
  bin: clawdhub

feeds: []
# - "https://example.com/feed.xml"

history:
  enabled: false
  retain_days: 30
  since: 24h

digest:
  watch_keywords: []
  min_platforms: 2

log:
  level: warn

privacy:
  redact:
    enabled: false
    patterns: []
`
