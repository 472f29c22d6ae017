// Package config loads server settings from defaults, an optional
// config.yaml, a .env file and TASKLIST_* environment variables, and
// enforces the session secret policy for production.
package config
