// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each package owning configuration declares a struct with `env` tags and
// loads it at startup:
//
//	var cfg tenant.Config
//	config.MustLoad(&cfg)
//
// A struct type is parsed once per process and cached, so independent
// components loading the same type observe identical values.
package config
