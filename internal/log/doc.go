// Package log provides wikicat's structured logging, built on log/slog.
//
// RedactingHandler wraps any slog.Handler and scrubs values before they are
// written:
//   - attributes with credential-like keys (cookie, authorization, password,
//     token, proxy_auth) are replaced entirely
//   - e-mail addresses inside string values are masked, which covers the
//     contact address commonly embedded in a crawler's User-Agent
//   - URL userinfo (user:password@host) inside string values is stripped
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Info("fetching page", "url", pageURL, "user_agent", ua)
package log
