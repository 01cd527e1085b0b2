// Package config loads environment-driven configuration for the tenant
// store packages.
//
// Every store package declares a Config struct with env tags; this
// package parses them, loading a .env file first when one exists:
//
//	var pg pgstore.Config
//	config.MustLoad(&pg)
//
//	var registry memstore.Config
//	config.MustLoad(&registry)
//
// Load reads the process environment on every call, so tests can adjust
// variables between loads with t.Setenv.
package config
