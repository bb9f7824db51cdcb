package config

import (
	"math"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/wikicat/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wikicat"

	// DefaultStartURL is the listing crawled when no URL or category is given.
	DefaultStartURL = "https://en.wikipedia.org/wiki/Category:Data_science"

	// DefaultOrigin is the site origin that relative links are resolved against.
	DefaultOrigin = "https://en.wikipedia.org/"

	// DefaultUserAgent identifies wikicat in HTTP requests.
	// Wikimedia asks automated clients to send a descriptive User-Agent
	// with a way to contact the operator.
	DefaultUserAgent = "wikicat/1.0 (+https://github.com/nao1215/wikicat)"

	// DefaultLimit is the maximum number of records collected per run.
	// 0 disables the limit.
	DefaultLimit = 100

	// DefaultDelay is the politeness pause between two page fetches.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 20 * time.Second

	// DefaultOutputPath is the file the records are written to.
	DefaultOutputPath = "wikipedia_category.csv"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultMaxPages is the page budget per run. 0 means unbounded.
	DefaultMaxPages = 0
)

// Output formats.
const (
	FormatCSV = "csv"
	FormatTSV = "tsv"
)

// Config holds all options of a crawl run.
// It is populated from defaults, the configuration file and CLI flags,
// and passed down explicitly; nothing reads it from global state.
type Config struct {
	// StartURL is the first listing page to fetch.
	StartURL string

	// Origin is the absolute URL relative links are resolved against.
	Origin string

	// Limit is the maximum number of records to emit. 0 means unbounded.
	Limit int

	// Delay is the pause between two consecutive page fetches.
	Delay time.Duration

	// OutputPath is the file the records are written to.
	OutputPath string

	// Format is the output format: "csv" or "tsv".
	// Empty means derive it from the OutputPath extension.
	Format string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64

	// MaxPages stops the run after this many pages. 0 means unbounded.
	MaxPages int

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// RespectRobots makes the crawler consult robots.txt before each fetch.
	RespectRobots bool

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// Quiet disables the progress spinner.
	Quiet bool

	// ConfigFilePath is the configuration file that was loaded, if any.
	ConfigFilePath string

	// Category is the name of the config-file category being crawled, if any.
	Category string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		StartURL:    DefaultStartURL,
		Origin:      DefaultOrigin,
		Limit:       DefaultLimit,
		Delay:       DefaultDelay,
		OutputPath:  DefaultOutputPath,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		MaxPages:    DefaultMaxPages,
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// DelayFromSeconds converts a delay given in (fractional) seconds.
// Negative and NaN inputs are passed through as a negative duration so
// that Validate rejects them.
func DelayFromSeconds(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds < 0 {
		return -1
	}
	return time.Duration(seconds * float64(time.Second))
}

// XDGDataDir returns the XDG data directory for wikicat.
// On Linux: ~/.local/share/wikicat
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikicat.
// On Linux: ~/.config/wikicat
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// OutputFormat returns the effective output format.
func (c *Config) OutputFormat() string {
	if c.Format != "" {
		return strings.ToLower(c.Format)
	}
	if strings.EqualFold(filepath.Ext(c.OutputPath), ".tsv") {
		return FormatTSV
	}
	return FormatCSV
}

// Job returns the crawl job described by the configuration.
func (c *Config) Job() model.Job {
	return model.Job{
		StartURL:   c.StartURL,
		Limit:      c.Limit,
		Delay:      c.Delay,
		OutputPath: c.OutputPath,
	}
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flags and files are merged, before any request.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StartURL) == "" {
		return ErrNoStartURL
	}
	if !isAbsoluteHTTPURL(c.StartURL) {
		return ErrInvalidStartURL
	}
	if !isAbsoluteHTTPURL(c.Origin) {
		return ErrInvalidOrigin
	}
	if c.Limit < 0 {
		return ErrInvalidLimit
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrNoOutputPath
	}
	switch c.OutputFormat() {
	case FormatCSV, FormatTSV:
	default:
		return ErrUnknownFormat
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return ErrEmptyUserAgent
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	return nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
