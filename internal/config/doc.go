// Package config loads, normalizes, and validates ywbridge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// YWBRIDGE_LOG_LEVEL. The Config type centralizes every knob the CLI and the
// conversion workflow need: where logs and the conversion journal live, the
// fallback document language, and how project backups are kept.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
