package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikicat/internal/config"
	"github.com/nao1215/wikicat/internal/crawler"
	"github.com/nao1215/wikicat/internal/database"
	"github.com/nao1215/wikicat/internal/fetcher"
	"github.com/nao1215/wikicat/internal/model"
	"github.com/nao1215/wikicat/internal/sink"
)

// categoryPrefix marks a bare category page title such as "Category:Statistics".
const categoryPrefix = "Category:"

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-url|category]",
		Short: "Export a category listing to CSV",
		Long: `Crawl fetches a paginated category listing page by page and writes the
title and URL of every member to the output file.

The argument is one of:
- an absolute listing URL
- a page title starting with "Category:", resolved against --origin
- the name of a category defined in the configuration file
Without an argument the Data science category is crawled.

Every page is fetched once, in order, with --delay seconds between pages.
Any failed request ends the run; rows already written stay in the file.

Examples:
  # Collect the first 100 members of the default category
  wikicat crawl

  # Collect every member, waiting two seconds between pages
  wikicat crawl --limit 0 --delay 2 https://en.wikipedia.org/wiki/Category:Statistics

  # Same, by page title, as tab-separated output
  wikicat crawl -l 0 -o statistics.tsv Category:Statistics

  # Crawl a category defined in .wikicat.yaml
  wikicat crawl data-science`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("limit", "l", config.DefaultLimit,
		"Maximum number of records to collect (0 = no limit)")
	cmd.Flags().Float64P("delay", "d", config.DefaultDelay.Seconds(),
		"Seconds to wait between page requests")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Output file path (created or truncated)")
	cmd.Flags().String("format", "",
		"Output format: csv or tsv (default: from the output file extension)")
	cmd.Flags().String("origin", config.DefaultOrigin,
		"Site origin that relative links are resolved against")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of bytes read per page")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Stop after this many pages (0 = no limit)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().Bool("respect-robots", false,
		"Refuse URLs disallowed by the site's robots.txt")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not show the progress spinner")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikicat.yaml in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runCrawl(ctx, cfg, cmd.ErrOrStderr(), logger)
	if err != nil {
		return err
	}

	if summary.StopReason == model.StopPageBudget {
		fmt.Fprintf(cmd.ErrOrStderr(), "Stopped after %d page(s): page budget reached.\n", summary.Pages)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done. Wrote %d rows to %s\n", summary.Records, cfg.OutputPath)
	return nil
}

// buildConfig merges, in increasing precedence, the built-in defaults, the
// configuration file defaults, the selected category and the flags the user
// set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	var file *config.File
	if found := config.FindConfigFile(configPath); found != "" {
		file, err = config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.ConfigFilePath = found
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	target := ""
	if len(args) > 0 {
		target = strings.TrimSpace(args[0])
	}
	matched := file.ApplyTo(cfg, target)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.DBDir = getDataDir(cmd)

	if target != "" && !matched {
		startURL, err := resolveTarget(target, cfg.Origin)
		if err != nil {
			return nil, err
		}
		cfg.StartURL = startURL
	}

	return cfg, nil
}

// applyFlags copies every explicitly set flag onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("limit") {
		if cfg.Limit, err = flags.GetInt("limit"); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		seconds, err := flags.GetFloat64("delay")
		if err != nil {
			return err
		}
		cfg.Delay = config.DelayFromSeconds(seconds)
	}
	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	if flags.Changed("origin") {
		if cfg.Origin, err = flags.GetString("origin"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("respect-robots") {
		if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
			return err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return err
	}
	cfg.SaveHistory = !noHistory

	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return err
	}
	cfg.Verbose = getBoolFlag(cmd, "verbose")

	return nil
}

// resolveTarget turns a crawl argument that is not a configured category
// into a start URL.
func resolveTarget(target, origin string) (string, error) {
	if strings.HasPrefix(target, categoryPrefix) {
		base, err := url.Parse(origin)
		if err != nil {
			return "", fmt.Errorf("%w: %q", config.ErrInvalidOrigin, origin)
		}
		title := strings.ReplaceAll(target, " ", "_")
		return base.JoinPath("wiki", title).String(), nil
	}

	u, err := url.Parse(target)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return target, nil
	}
	return "", fmt.Errorf("unknown category %q: not an http(s) URL, a Category: title, or a category in the configuration file", target)
}

// runCrawl wires the fetcher, extractor, sink and history for one run and
// executes it.
func runCrawl(ctx context.Context, cfg *config.Config, progressOut io.Writer, logger *slog.Logger) (model.Summary, error) {
	logger.Info("starting crawl",
		"start_url", cfg.StartURL,
		"category", cfg.Category,
		"limit", cfg.Limit,
		"delay", cfg.Delay,
		"output", cfg.OutputPath,
		"format", cfg.OutputFormat(),
		"user_agent", cfg.UserAgent,
		"config_file", cfg.ConfigFilePath,
	)

	client, err := fetcher.NewHTTPClient(fetcher.ClientOptions{
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		ProxyAddress: cfg.ProxyAddress,
	})
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	var pageFetcher crawler.Fetcher = fetcher.NewHTTPFetcher(client,
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	)
	if cfg.RespectRobots {
		pageFetcher = fetcher.NewRobotsGuard(pageFetcher, client, cfg.UserAgent, logger)
	}

	extractor, err := crawler.NewExtractor(cfg.Origin, crawler.WithExtractorLogger(logger))
	if err != nil {
		return model.Summary{}, err
	}

	delimiter := sink.DelimiterFor(cfg.OutputFormat())
	openSink := func(path string) (crawler.RecordSink, error) {
		s, err := sink.Create(path, sink.WithDelimiter(delimiter))
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	opts := []crawler.PaginatorOption{
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithLogger(logger),
	}

	var recorder *historyRecorder
	if cfg.SaveHistory {
		recorder = startHistory(ctx, cfg, logger)
		if recorder != nil {
			defer recorder.close()
			opts = append(opts, crawler.WithObserver(recorder.observe))
		}
	}

	if !cfg.Quiet {
		if p := newProgress(progressOut, cfg.Limit); p != nil {
			p.start()
			defer p.stop()
			opts = append(opts, crawler.WithObserver(p.observe))
		}
	}

	summary, runErr := crawler.NewPaginator(pageFetcher, extractor, openSink, opts...).Run(ctx, cfg.Job())

	if recorder != nil {
		recorder.finish(context.WithoutCancel(ctx), summary, runErr)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return summary, fmt.Errorf("crawl interrupted after %d rows: %w", summary.Records, runErr)
		}
		return summary, runErr
	}

	logger.Info("crawl finished",
		"records", summary.Records,
		"pages", summary.Pages,
		"stop_reason", summary.StopReason,
	)
	return summary, nil
}

// startHistory opens the history database and records the run start.
// History is best effort: failures are logged and the crawl continues.
func startHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) *historyRecorder {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("run history disabled", "error", err)
		return nil
	}

	recorder, err := newHistoryRecorder(ctx, db, cfg.Job(), logger)
	if err != nil {
		logger.Warn("run history disabled", "error", err)
		_ = db.Close()
		return nil
	}
	return recorder
}
