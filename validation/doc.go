// Package validation validates configuration structs.
//
// Struct tag validation uses go-playground/validator with field names taken
// from the mapstructure keys, plus two container-specific tags:
//
//	type ContainerConfig struct {
//	    BasePackage string   `mapstructure:"base_package" validate:"required,namespace"`
//	    Locations   []string `mapstructure:"locations" validate:"dive,location"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic checks collect errors the same way:
//
//	v := validation.New()
//	v.OneOf("logging.level", lvl, levels)
//	err := v.Validate()
//
// Failures are INVALID_CONFIG AppErrors with the failing fields in
// Details["fields"].
package validation
