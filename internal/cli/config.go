package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/secrets"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dealflow configuration",
	Long: `Manage dealflow configuration files, settings and stored API keys.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (DEALFLOW_*, HARMONIC_API_KEY, AFFINITY_API_KEY, ...)
3. Config file (~/.dealflow/config.yaml)
4. API keys stored in the OS keychain
5. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, environment variables and the keychain. API keys are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults and environment)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		yamlData, err := yaml.Marshal(maskKeys(cfg))
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.dealflow/config.yaml. Ids and keys are left empty.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".dealflow")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'dealflow config show' to view it, or delete it first to recreate", configPath)
		}
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		var b strings.Builder
		b.WriteString("# dealflow configuration\n")
		b.WriteString("#\n")
		b.WriteString("# Configuration hierarchy (highest to lowest priority):\n")
		b.WriteString("#   1. CLI flags\n")
		b.WriteString("#   2. Environment variables (DEALFLOW_*)\n")
		b.WriteString("#   3. This config file\n")
		b.WriteString("#   4. OS keychain (dealflow config set-key)\n")
		b.WriteString("#   5. Built-in defaults\n\n")
		b.Write(yamlData)
		b.WriteString("\n# Required before the first run:\n")
		b.WriteString("#   affinity.target_list_id   (or AFFINITY_LIST_ID)\n")
		b.WriteString("#   sheet.spreadsheet_id      (or SPREADSHEET_ID) for the google backend\n")
		b.WriteString("#   lemlist.campaign_id       (or LEMLIST_CAMPAIGN_ID) for lemlist push\n")
		b.WriteString("#\n")
		b.WriteString("# Keep API keys out of this file:\n")
		b.WriteString("#   dealflow config set-key harmonic\n")
		b.WriteString("#   export AFFINITY_API_KEY=...\n")

		if err := os.WriteFile(configPath, []byte(b.String()), 0o600); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  dealflow config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n\n", configPath)
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:       "set-key <harmonic|affinity|lemlist|llm>",
	Short:     "Store an API key in the OS keychain",
	Long:      `Read an API key from stdin and store it in the OS keychain under the "dealflow" service.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: secrets.Accounts,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stderr, "Enter %s API key: ", args[0])
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read key: %w", err)
		}
		if err := secrets.Set(args[0], line); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\n✓ Stored %s key in the keychain\n", args[0])
		return nil
	},
}

var configDeleteKeyCmd = &cobra.Command{
	Use:       "delete-key <harmonic|affinity|lemlist|llm>",
	Short:     "Remove an API key from the OS keychain",
	Args:      cobra.ExactArgs(1),
	ValidArgs: secrets.Accounts,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Removed %s key\n", args[0])
		return nil
	},
}

// maskKeys hides all but the last four characters of every API key
func maskKeys(cfg model.Config) model.Config {
	for _, key := range []*string{&cfg.Harmonic.APIKey, &cfg.Affinity.APIKey, &cfg.Lemlist.APIKey, &cfg.LLM.APIKey} {
		if *key == "" {
			continue
		}
		if len(*key) <= 8 {
			*key = "****"
			continue
		}
		*key = "****" + (*key)[len(*key)-4:]
	}
	return cfg
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configDeleteKeyCmd)
}
