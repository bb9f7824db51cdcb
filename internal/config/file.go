package config

import "time"

// Settings is the subset of Config that a configuration file may set.
// Pointer fields distinguish "not set" from an explicit zero such as
// limit: 0 (unlimited).
type Settings struct {
	// Origin overrides the site origin used to resolve relative links.
	Origin *string `yaml:"origin,omitempty"`

	// Limit is the maximum number of records. 0 means unlimited.
	Limit *int `yaml:"limit,omitempty"`

	// Delay is the pause between page fetches, in seconds.
	Delay *float64 `yaml:"delay,omitempty"`

	// Output is the path of the output file.
	Output *string `yaml:"output,omitempty"`

	// Format is the output format (csv or tsv).
	Format *string `yaml:"format,omitempty"`

	// UserAgent is the User-Agent header value.
	UserAgent *string `yaml:"user_agent,omitempty"`

	// Timeout bounds each request, e.g. "20s".
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// MaxPages is the page budget. 0 means unlimited.
	MaxPages *int `yaml:"max_pages,omitempty"`

	// Proxy is a SOCKS5 proxy address.
	Proxy *string `yaml:"proxy,omitempty"`

	// RespectRobots enables the robots.txt guard.
	RespectRobots *bool `yaml:"respect_robots,omitempty"`
}

// ApplyTo copies every field that is set onto cfg.
func (s Settings) ApplyTo(cfg *Config) {
	if s.Origin != nil {
		cfg.Origin = *s.Origin
	}
	if s.Limit != nil {
		cfg.Limit = *s.Limit
	}
	if s.Delay != nil {
		cfg.Delay = DelayFromSeconds(*s.Delay)
	}
	if s.Output != nil {
		cfg.OutputPath = *s.Output
	}
	if s.Format != nil {
		cfg.Format = *s.Format
	}
	if s.UserAgent != nil {
		cfg.UserAgent = *s.UserAgent
	}
	if s.Timeout != nil {
		cfg.Timeout = *s.Timeout
	}
	if s.MaxPages != nil {
		cfg.MaxPages = *s.MaxPages
	}
	if s.Proxy != nil {
		cfg.ProxyAddress = *s.Proxy
	}
	if s.RespectRobots != nil {
		cfg.RespectRobots = *s.RespectRobots
	}
}

// Category is a named listing in the configuration file.
type Category struct {
	// URL is the first page of the listing.
	URL string `yaml:"url"`

	// Settings override the file defaults for this category.
	Settings `yaml:",inline"`
}

// File represents the structure of the .wikicat.yaml configuration file.
type File struct {
	// Defaults apply to every crawl.
	Defaults Settings `yaml:"defaults,omitempty"`

	// Categories maps a short name to a listing, e.g. "data-science".
	Categories map[string]Category `yaml:"categories,omitempty"`
}

// Category returns the named category.
func (f *File) Category(name string) (Category, bool) {
	if f == nil || f.Categories == nil {
		return Category{}, false
	}
	c, ok := f.Categories[name]
	return c, ok
}

// ApplyTo applies the file defaults to cfg and, when target names a known
// category, that category's URL and overrides. It reports whether target
// matched a category.
func (f *File) ApplyTo(cfg *Config, target string) bool {
	if f == nil {
		return false
	}
	f.Defaults.ApplyTo(cfg)

	c, ok := f.Category(target)
	if !ok {
		return false
	}
	c.Settings.ApplyTo(cfg)
	if c.URL != "" {
		cfg.StartURL = c.URL
	}
	cfg.Category = target
	return true
}
