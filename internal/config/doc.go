// Package config loads, normalizes, and validates photostrip configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PHOTOSTRIP_PUBLIC_BASE_URL. The layout table lives here as injected
// configuration so the capture pipeline never hard-codes photo counts.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
