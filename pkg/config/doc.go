// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads one or more .env files into the process environment
//     without touching variables that are already set. OverloadEnv lets
//     the files win.
//     The default .env in the working directory is read automatically
//     before the first Load.
//   - Load parses the environment into any struct annotated with env tags
//     and caches the result per type, so every package asking for the
//     same configuration type sees the same values.
//   - ForceReloadConfig and ResetCache discard cached values; they exist
//     mostly for tests.
//
// The engine, bundle sources and logger each declare their own
// configuration struct (engine.Config, bundle.RedisConfig, bundle.S3Config,
// logger.Config) and load it through this package.
package config
