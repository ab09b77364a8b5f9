package model

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete dealflow configuration
type Config struct {
	Harmonic    HarmonicConfig    `yaml:"harmonic" mapstructure:"harmonic"`
	Affinity    AffinityConfig    `yaml:"affinity" mapstructure:"affinity"`
	Lemlist     LemlistConfig     `yaml:"lemlist" mapstructure:"lemlist"`
	Sheet       SheetConfig       `yaml:"sheet" mapstructure:"sheet"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HarmonicConfig configures the intelligence API client
type HarmonicConfig struct {
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	WatchlistURN      string  `yaml:"watchlist_urn,omitempty" mapstructure:"watchlist_urn"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// AffinityConfig configures the CRM client and the lists it inspects
type AffinityConfig struct {
	APIKey            string       `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string       `yaml:"base_url" mapstructure:"base_url"`
	TargetListID      int64        `yaml:"target_list_id" mapstructure:"target_list_id"`
	Lists             []ListConfig `yaml:"lists" mapstructure:"lists"`
	Fields            FieldConfig  `yaml:"fields" mapstructure:"fields"`
	RequestsPerSecond float64      `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ListConfig names a CRM list for display
type ListConfig struct {
	ID   int64  `yaml:"id" mapstructure:"id"`
	Name string `yaml:"name" mapstructure:"name"`
	YC   bool   `yaml:"yc,omitempty" mapstructure:"yc"` // Accelerator batch list, checked by crm yc-check
}

// FieldConfig holds the custom field ids on the target list
type FieldConfig struct {
	Status              int64   `yaml:"status" mapstructure:"status"`
	Responded           int64   `yaml:"responded" mapstructure:"responded"`
	Outreach            int64   `yaml:"outreach" mapstructure:"outreach"`
	RaisingLaterOptions []int64 `yaml:"raising_later_options" mapstructure:"raising_later_options"` // Status option ids meaning "raising later"
}

// LemlistConfig configures the outreach client
type LemlistConfig struct {
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	CampaignID        string  `yaml:"campaign_id,omitempty" mapstructure:"campaign_id"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// SheetConfig selects and configures the spreadsheet backend
type SheetConfig struct {
	Backend         string `yaml:"backend" mapstructure:"backend"` // google, xlsx, csv
	SpreadsheetID   string `yaml:"spreadsheet_id,omitempty" mapstructure:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	SheetName       string `yaml:"sheet_name,omitempty" mapstructure:"sheet_name"` // Empty means the first sheet
	Path            string `yaml:"path,omitempty" mapstructure:"path"`             // Local file for xlsx/csv
	LeadsCSV        string `yaml:"leads_csv" mapstructure:"leads_csv"`
}

// HTTPConfig configures the shared API transport
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"` // Attempts per request when rate limited
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy   string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the record cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures parallel status checks
type ConcurrencyConfig struct {
	StatusWorkers int `yaml:"status_workers" mapstructure:"status_workers"`
}

// SearchConfig tunes the sourcing searches
type SearchConfig struct {
	PageSize      int `yaml:"page_size" mapstructure:"page_size"`
	MaxURNs       int `yaml:"max_urns" mapstructure:"max_urns"`
	Candidates    int `yaml:"candidates" mapstructure:"candidates"` // Ranked candidates checked against the CRM
	TopN          int `yaml:"top_n" mapstructure:"top_n"`           // Rows written
	MinHighlights int `yaml:"min_highlights" mapstructure:"min_highlights"`
}

// LLMConfig configures optional icebreaker generation
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults. Credentials and ids have no
// defaults and must come from the environment, the keyring or the config file.
func DefaultConfig() Config {
	return Config{
		Harmonic: HarmonicConfig{
			BaseURL:           "https://api.harmonic.ai",
			RequestsPerSecond: 5,
		},
		Affinity: AffinityConfig{
			BaseURL:           "https://api.affinity.co",
			RequestsPerSecond: 8,
		},
		Lemlist: LemlistConfig{
			BaseURL:           "https://api.lemlist.com/api",
			RequestsPerSecond: 3,
		},
		Sheet: SheetConfig{
			Backend:         "google",
			CredentialsFile: "credentials.json",
			LeadsCSV:        "lemlist_leads.csv",
		},
		HTTP: HTTPConfig{
			Timeout:     60 * time.Second,
			MaxAttempts: 5,
			UserAgent:   "dealflow/0.1",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".dealflow-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			StatusWorkers: 20,
		},
		Search: SearchConfig{
			PageSize:      200,
			MaxURNs:       1500,
			Candidates:    600,
			TopN:          100,
			MinHighlights: 8,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 120,
		},
	}
}

// ListName returns the configured display name of a list
func (c AffinityConfig) ListName(id int64) string {
	for _, l := range c.Lists {
		if l.ID == id {
			return l.Name
		}
	}
	if id == c.TargetListID {
		return "Target list"
	}
	return fmt.Sprintf("List #%d", id)
}

// YCLists returns the ids of lists flagged as accelerator batches
func (c AffinityConfig) YCLists() map[int64]string {
	out := make(map[int64]string)
	for _, l := range c.Lists {
		if l.YC {
			out[l.ID] = l.Name
		}
	}
	return out
}

// Requirement names one credential or id a command needs
type Requirement int

const (
	NeedHarmonic Requirement = iota
	NeedAffinity
	NeedTargetList
	NeedLemlist
	NeedSheet
	NeedWatchlist
	NeedStatusFields
)

// Validate checks that everything a command needs is configured
func (c Config) Validate(reqs ...Requirement) error {
	var errs []error
	for _, r := range reqs {
		switch r {
		case NeedHarmonic:
			if c.Harmonic.APIKey == "" {
				errs = append(errs, errors.New("harmonic api key is not set (HARMONIC_API_KEY)"))
			}
		case NeedAffinity:
			if c.Affinity.APIKey == "" {
				errs = append(errs, errors.New("affinity api key is not set (AFFINITY_API_KEY)"))
			}
		case NeedTargetList:
			if c.Affinity.TargetListID == 0 {
				errs = append(errs, errors.New("affinity target list id is not set (AFFINITY_LIST_ID)"))
			}
		case NeedLemlist:
			if c.Lemlist.APIKey == "" {
				errs = append(errs, errors.New("lemlist api key is not set (LEMLIST_API_KEY)"))
			}
			if c.Lemlist.CampaignID == "" {
				errs = append(errs, errors.New("lemlist campaign id is not set (LEMLIST_CAMPAIGN_ID)"))
			}
		case NeedSheet:
			switch c.Sheet.Backend {
			case "google":
				if c.Sheet.SpreadsheetID == "" {
					errs = append(errs, errors.New("spreadsheet id is not set (SPREADSHEET_ID)"))
				}
			case "xlsx", "csv":
				if c.Sheet.Path == "" {
					errs = append(errs, fmt.Errorf("sheet.path is required for the %s backend", c.Sheet.Backend))
				}
			default:
				errs = append(errs, fmt.Errorf("unknown sheet backend %q (supported: google, xlsx, csv)", c.Sheet.Backend))
			}
		case NeedWatchlist:
			if c.Harmonic.WatchlistURN == "" {
				errs = append(errs, errors.New("watchlist urn is not set (WATCHLIST_URN)"))
			}
		case NeedStatusFields:
			if c.Affinity.Fields.Status == 0 {
				errs = append(errs, errors.New("affinity.fields.status is not set"))
			}
			if len(c.Affinity.Fields.RaisingLaterOptions) == 0 {
				errs = append(errs, errors.New("affinity.fields.raising_later_options is empty"))
			}
		}
	}
	return errors.Join(errs...)
}
