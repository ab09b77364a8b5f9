package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/secrets"
)

// version is set at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile string
	verbose bool
	noCache bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dealflow",
	Short: "dealflow - venture sourcing automation",
	Long: `dealflow finds early-stage companies in the intelligence API, checks them
against the CRM so nobody is contacted twice, writes the results to the
review spreadsheet and pushes approved leads to the outreach campaign.

A company already known to the CRM is never treated as net new: CRM
matches require an exact domain or an exact normalized name.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Ctrl-C cancels the running job.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dealflow v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.dealflow/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the record cache (force fresh fetch)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// legacyEnv maps config keys to the bare environment variable names the
// sourcing scripts have always used
var legacyEnv = map[string][]string{
	"harmonic.api_key":        {"HARMONIC_API_KEY"},
	"harmonic.watchlist_urn":  {"WATCHLIST_URN"},
	"affinity.api_key":        {"AFFINITY_API_KEY"},
	"affinity.target_list_id": {"AFFINITY_LIST_ID"},
	"lemlist.api_key":         {"LEMLIST_API_KEY"},
	"lemlist.campaign_id":     {"LEMLIST_CAMPAIGN_ID"},
	"sheet.spreadsheet_id":    {"SPREADSHEET_ID"},
	"sheet.credentials_file":  {"GOOGLE_APPLICATION_CREDENTIALS"},
	"llm.api_key":             {"OPENAI_API_KEY", "ANTHROPIC_API_KEY"},
	"llm.base_url":            {"OLLAMA_BASE_URL"},
	"http.http_proxy":         {"HTTP_PROXY"},
	"http.https_proxy":        {"HTTPS_PROXY"},
	"http.no_proxy":           {"NO_PROXY"},
	"sheet.path":              nil,
	"sheet.sheet_name":        nil,
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".dealflow"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := bindEnv(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv makes every config key overridable from the environment as
// DEALFLOW_<SECTION>_<KEY>, plus the legacy names
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("DEALFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		envKey := "DEALFLOW_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, envKey}, names...)...); err != nil {
			return err
		}
	}
	return setDefaults(v, model.DefaultConfig())
}

// setDefaults registers every key of cfg so environment variables can
// override keys the config file does not mention
func setDefaults(v *viper.Viper, cfg model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, val := range m {
			key := prefix + k
			if sub, ok := val.(map[string]any); ok {
				walk(key+".", sub)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)
	return nil
}

// loadConfig merges defaults, the config file and the environment, then
// fills missing API keys from the OS keychain
func loadConfig(v *viper.Viper) (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	for account, key := range map[string]*string{
		"harmonic": &cfg.Harmonic.APIKey,
		"affinity": &cfg.Affinity.APIKey,
		"lemlist":  &cfg.Lemlist.APIKey,
		"llm":      &cfg.LLM.APIKey,
	} {
		if *key != "" {
			continue
		}
		if stored, ok := secrets.Get(account); ok {
			*key = stored
		}
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}
