package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Letter    LetterConfig    `yaml:"letter" mapstructure:"letter"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Mail      MailConfig      `yaml:"mail" mapstructure:"mail"`
	Sheet     SheetConfig     `yaml:"sheet" mapstructure:"sheet"`
	Exclusion ExclusionConfig `yaml:"exclusion" mapstructure:"exclusion"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Run       RunConfig       `yaml:"run" mapstructure:"run"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// Search providers accepted by SearchConfig.Provider.
const (
	SearchJina   = "jina"
	SearchPlaces = "places"
)

// SearchConfig configures lead discovery.
type SearchConfig struct {
	Query      string       `yaml:"query" mapstructure:"query"`
	Provider   string       `yaml:"provider" mapstructure:"provider"`
	MaxResults int          `yaml:"max_results" mapstructure:"max_results"`
	MaxEmails  int          `yaml:"max_emails" mapstructure:"max_emails"`
	Places     PlacesConfig `yaml:"places" mapstructure:"places"`
}

// PlacesConfig holds Google Places search settings.
type PlacesConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	LanguageCode string `yaml:"language_code" mapstructure:"language_code"`
	RegionCode   string `yaml:"region_code" mapstructure:"region_code"`
}

// ExtractConfig configures address extraction.
type ExtractConfig struct {
	TLDs      []string `yaml:"tlds" mapstructure:"tlds"`
	Blacklist []string `yaml:"blacklist" mapstructure:"blacklist"`
}

// FetchConfig configures page fetching.
type FetchConfig struct {
	TimeoutSecs  int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerHost  float64  `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	JinaFallback bool     `yaml:"jina_fallback" mapstructure:"jina_fallback"`
	SkipHosts    []string `yaml:"skip_hosts" mapstructure:"skip_hosts"`
	SkipPaths    []string `yaml:"skip_paths" mapstructure:"skip_paths"`
}

// JinaConfig holds Jina AI search and reader settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// LLM providers accepted by LLMConfig.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// LLMConfig selects the text generation backend.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// LetterConfig holds the static parts of every cover letter.
type LetterConfig struct {
	Prompt             string `yaml:"prompt" mapstructure:"prompt"`
	SystemInstructions string `yaml:"system_instructions" mapstructure:"system_instructions"`
	FirstPart          string `yaml:"first_part" mapstructure:"first_part"`
	UserInfo           string `yaml:"user_info" mapstructure:"user_info"`
}

// EnrichConfig configures the per-domain site summary.
type EnrichConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	MaxChars    int    `yaml:"max_chars" mapstructure:"max_chars"`
	Prompt      string `yaml:"prompt" mapstructure:"prompt"`
}

// RenderConfig configures the letter PDF.
type RenderConfig struct {
	TemplatePath string `yaml:"template_path" mapstructure:"template_path"`
	OutputPath   string `yaml:"output_path" mapstructure:"output_path"`
}

// MailConfig holds SMTP, IMAP and message settings.
type MailConfig struct {
	From           string `yaml:"from" mapstructure:"from"`
	DisplayName    string `yaml:"display_name" mapstructure:"display_name"`
	Username       string `yaml:"username" mapstructure:"username"`
	Password       string `yaml:"password" mapstructure:"password"`
	SMTPHost       string `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	SMTPTLS        string `yaml:"smtp_tls" mapstructure:"smtp_tls"`
	IMAPHost       string `yaml:"imap_host" mapstructure:"imap_host"`
	IMAPPort       int    `yaml:"imap_port" mapstructure:"imap_port"`
	IMAPTLS        bool   `yaml:"imap_tls" mapstructure:"imap_tls"`
	SentMailbox    string `yaml:"sent_mailbox" mapstructure:"sent_mailbox"`
	Subject        string `yaml:"subject" mapstructure:"subject"`
	Body           string `yaml:"body" mapstructure:"body"`
	AttachmentPath string `yaml:"attachment_path" mapstructure:"attachment_path"`
}

// Sheet drivers accepted by SheetConfig.Driver.
const (
	SheetGoogle = "gsheets"
	SheetXLSX   = "xlsx"
	SheetNotion = "notion"
)

// SheetConfig configures the outreach log sink.
type SheetConfig struct {
	Driver       string            `yaml:"driver" mapstructure:"driver"`
	Label        string            `yaml:"label" mapstructure:"label"`
	LinkText     string            `yaml:"link_text" mapstructure:"link_text"`
	StatusValues []string          `yaml:"status_values" mapstructure:"status_values"`
	Google       GoogleSheetConfig `yaml:"google" mapstructure:"google"`
	XLSX         XLSXConfig        `yaml:"xlsx" mapstructure:"xlsx"`
	Notion       NotionConfig      `yaml:"notion" mapstructure:"notion"`
}

// GoogleSheetConfig locates the Google spreadsheet.
type GoogleSheetConfig struct {
	CredentialsPath string `yaml:"credentials_path" mapstructure:"credentials_path"`
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Range           string `yaml:"range" mapstructure:"range"`
}

// XLSXConfig locates the local workbook.
type XLSXConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// NotionConfig holds Notion API credentials and the log database.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id"`
}

// ExclusionConfig locates the exclusion record.
type ExclusionConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the run ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// MetricsConfig configures the node-exporter textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// RunConfig holds the default run-mode switches.
type RunConfig struct {
	LogToSheet bool `yaml:"log_to_sheet" mapstructure:"log_to_sheet"`
	Confirm    bool `yaml:"confirm" mapstructure:"confirm"`
	Preview    bool `yaml:"preview" mapstructure:"preview"`

	// RetryAttempts bounds calls to the history sources and the log sink.
	RetryAttempts int           `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml in the working directory and
// OUTREACH_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Long texts are often written on one line with literal \n.
	for _, s := range []*string{
		&cfg.Mail.Body,
		&cfg.Letter.Prompt,
		&cfg.Letter.SystemInstructions,
		&cfg.Letter.FirstPart,
		&cfg.Letter.UserInfo,
	} {
		*s = unescapeNewlines(*s)
	}
	if strings.TrimSpace(cfg.Letter.UserInfo) == "" {
		cfg.Letter.UserInfo = cfg.Mail.Body
	}

	return &cfg, nil
}

// envOnlyKeys have no default but must be known to viper for AutomaticEnv
// to reach them during Unmarshal.
var envOnlyKeys = []string{
	"search.query",
	"search.places.key",
	"jina.key",
	"anthropic.key",
	"openai.key",
	"letter.prompt",
	"letter.system_instructions",
	"letter.first_part",
	"letter.user_info",
	"enrich.prompt",
	"render.template_path",
	"mail.from",
	"mail.display_name",
	"mail.username",
	"mail.password",
	"mail.subject",
	"mail.body",
	"mail.attachment_path",
	"sheet.google.credentials_path",
	"sheet.google.spreadsheet_id",
	"sheet.notion.token",
	"sheet.notion.database_id",
	"metrics.textfile",
}

func setDefaults(v *viper.Viper) {
	for _, k := range envOnlyKeys {
		v.SetDefault(k, "")
	}
	v.SetDefault("search.provider", SearchJina)
	v.SetDefault("search.places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("search.places.language_code", "fr")
	v.SetDefault("search.places.region_code", "FR")
	v.SetDefault("search.max_results", 50)
	v.SetDefault("search.max_emails", 50)
	v.SetDefault("extract.tlds", []string{
		"com", "fr", "io", "net", "org", "eu", "co", "dev", "ai", "app",
		"tech", "info", "biz", "be", "ch", "de", "uk", "ca", "us",
	})
	v.SetDefault("extract.blacklist", []string{"example", "sentry", "wixpress", "domain.com", "noreply", "no-reply"})
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.rate_per_host", 2)
	v.SetDefault("fetch.jina_fallback", false)
	v.SetDefault("fetch.skip_hosts", []string{
		"linkedin.com", "facebook.com", "instagram.com", "twitter.com",
		"x.com", "youtube.com", "indeed.com",
	})
	v.SetDefault("fetch.skip_paths", []string{"/*.pdf", "/*.doc", "/*.docx"})
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("llm.provider", ProviderAnthropic)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("enrich.enabled", true)
	v.SetDefault("enrich.concurrency", 1)
	v.SetDefault("enrich.max_chars", 8000)
	v.SetDefault("render.output_path", "lettre_motivation.pdf")
	v.SetDefault("mail.smtp_host", "127.0.0.1")
	v.SetDefault("mail.smtp_port", 1025)
	v.SetDefault("mail.smtp_tls", "none")
	v.SetDefault("mail.imap_host", "127.0.0.1")
	v.SetDefault("mail.imap_port", 1143)
	v.SetDefault("mail.imap_tls", false)
	v.SetDefault("mail.sent_mailbox", "Sent")
	v.SetDefault("sheet.driver", SheetGoogle)
	v.SetDefault("sheet.label", "Candidature spontanée")
	v.SetDefault("sheet.link_text", "Lien")
	v.SetDefault("sheet.status_values", []string{"Non", "Non", "Non"})
	v.SetDefault("sheet.google.range", "Sheet1!A1")
	v.SetDefault("sheet.xlsx.path", "outreach.xlsx")
	v.SetDefault("exclusion.path", "exclusion.yaml")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "outreach.db")
	v.SetDefault("run.log_to_sheet", false)
	v.SetDefault("run.confirm", true)
	v.SetDefault("run.preview", false)
	v.SetDefault("run.retry_attempts", 3)
	v.SetDefault("run.retry_backoff", "1s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
