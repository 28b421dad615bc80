// Package config loads, normalizes, and validates PrepAI configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PREPAI_JWT_SECRET and PREPAI_GATEWAY_URL. The Config type centralizes every
// knob the session client and the gateway daemon need, so stream endpoints,
// cadences, and credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
