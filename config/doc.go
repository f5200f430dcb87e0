// Package config provides configuration loading and validation for iockit
// applications.
//
// It uses Viper to load an ioc.yml file, godotenv to import a .env file and
// binds IOC_* environment variables for every key of the target struct.
// Files are read through an afero filesystem.
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("iocdemo", &cfg)
//
// Environment variables override file values using the IOC_ prefix with
// underscore-separated paths (e.g., IOC_CONTAINER_BASE_PACKAGE).
package config
