// Package config provides configuration structures and utilities for wikicat.
// It defines the crawl settings, their defaults, validation, and the optional
// YAML configuration file with named categories.
package config
