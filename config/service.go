package config

import (
	"fmt"

	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
	"github.com/kbukum/iockit/scan"
	"github.com/kbukum/iockit/validation"
)

// ServiceConfig contains the configuration every iockit application needs.
// Projects extend it by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Greeting string `yaml:"greeting" mapstructure:"greeting"`
//	}
type ServiceConfig struct {
	Name          string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version       string               `yaml:"version" mapstructure:"version"`
	Debug         bool                 `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Container     ContainerConfig      `yaml:"container" mapstructure:"container"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ContainerConfig configures the IoC container.
type ContainerConfig struct {
	// BasePackage is the package path the container scans, e.g. "github.com/acme/app".
	BasePackage string `yaml:"base_package" mapstructure:"base_package" validate:"required,namespace"`
	// Locations lists where component names are read from.
	Locations []string `yaml:"locations" mapstructure:"locations" validate:"dive,location"`
	// Strict makes Start fail when any component cannot be wired.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// ApplyDefaults applies default values to the container configuration.
func (c *ContainerConfig) ApplyDefaults() {
	if len(c.Locations) == 0 {
		c.Locations = []string{scan.CatalogLocation}
	}
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Override this in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Container.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Override this in embedding structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
