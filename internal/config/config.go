package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// SRSConfig exposes the tunable scheduling parameters. Zero values fall back
// to the algorithm defaults, so every field is optional.
type SRSConfig struct {
	IntervalModifier       float64 `mapstructure:"interval_modifier" validate:"omitempty,gt=0"`
	GraduatingIntervalDays int     `mapstructure:"graduating_interval_days" validate:"omitempty,gt=0"`
	EasyIntervalDays       int     `mapstructure:"easy_interval_days" validate:"omitempty,gt=0"`
	MaximumIntervalDays    int     `mapstructure:"maximum_interval_days" validate:"omitempty,gt=0"`
	LearningStepsMinutes   []int   `mapstructure:"learning_steps_minutes" validate:"omitempty,dive,gt=0"`
	RelearningStepsMinutes []int   `mapstructure:"relearning_steps_minutes" validate:"omitempty,dive,gt=0"`
}
