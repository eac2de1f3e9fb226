// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv (optional .env files) with
// github.com/caarlos0/env/v11 (struct tag parsing). Every config type is parsed
// once and cached, so packages can call Load freely without re-reading the
// environment:
//
//	var cfg email.Config
//	config.MustLoad(&cfg)
//
// Tests that change the environment call ResetCache, or LoadEnv which resets
// the cache itself.
package config
