// Package config loads gradesheet settings from defaults, an optional config
// file, an optional .env file and GRADESHEET_* environment variables.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "GRADESHEET"

type (
	Config struct {
		Log      LogConfig      `mapstructure:"log"`
		Export   ExportConfig   `mapstructure:"export"`
		Server   ServerConfig   `mapstructure:"server"`
		Source   SourceConfig   `mapstructure:"source"`
		Delivery DeliveryConfig `mapstructure:"delivery"`
	}

	LogConfig struct {
		Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
		Format string `mapstructure:"format" validate:"oneof=console json"`
	}

	ExportConfig struct {
		FileName          string             `mapstructure:"fileName" validate:"required,endswith=.xlsx"`
		ObservationsSheet bool               `mapstructure:"observationsSheet"`
		ComputeAverages   bool               `mapstructure:"computeAverages"`
		ShowIcon          bool               `mapstructure:"showIcon"`
		StudentOrder      string             `mapstructure:"studentOrder" validate:"oneof=snapshot alphabetical"`
		Language          string             `mapstructure:"language"`
		Labels            string             `mapstructure:"labels" validate:"oneof=en es"`
		Palette           gradesheet.Palette `mapstructure:"palette"`
	}

	ServerConfig struct {
		Address        string `mapstructure:"address" validate:"required"`
		DisableReqLogs bool   `mapstructure:"disableReqLogs"`
		// MaxBodySize limits snapshot uploads, e.g. "8M".
		MaxBodySize string `mapstructure:"maxBodySize"`
	}

	SourceConfig struct {
		Driver string `mapstructure:"driver" validate:"omitempty,oneof=file http sqlite"`
		Path   string `mapstructure:"path" validate:"required_if=Driver file"`
		URL    string `mapstructure:"url" validate:"required_if=Driver http"`
		DSN    string `mapstructure:"dsn" validate:"required_if=Driver sqlite"`
		// Token is sent as a bearer token by the http driver.
		Token string `mapstructure:"token"`
	}

	DeliveryConfig struct {
		Driver string   `mapstructure:"driver" validate:"oneof=stdout fs s3"`
		Dir    string   `mapstructure:"dir"`
		S3     S3Config `mapstructure:"s3"`
	}

	S3Config struct {
		Bucket    string `mapstructure:"bucket"`
		Region    string `mapstructure:"region"`
		Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
		PathStyle bool   `mapstructure:"pathStyle"`
		Prefix    string `mapstructure:"prefix"`
	}
)

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// ConfigFile is an optional YAML/JSON/TOML file.
	ConfigFile string
	// EnvFile is an optional .env file; a missing file is ignored.
	EnvFile string
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	def := gradesheet.DefaultOptions()

	v.SetTypeByDefaultValue(true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("export.fileName", def.FileName)
	v.SetDefault("export.observationsSheet", def.ShouldEmitObservations())
	v.SetDefault("export.computeAverages", def.ComputeAverages)
	v.SetDefault("export.showIcon", def.ShouldShowIcon())
	v.SetDefault("export.studentOrder", string(def.StudentOrder))
	v.SetDefault("export.language", def.Language)
	v.SetDefault("export.labels", "en")
	v.SetDefault("export.palette.session", def.Palette.Session)
	v.SetDefault("export.palette.competency", def.Palette.Competency)
	v.SetDefault("export.palette.ability", def.Palette.Ability)
	v.SetDefault("export.palette.fixedColumns", def.Palette.FixedColumns)
	v.SetDefault("export.palette.observation", def.Palette.Observation)
	v.SetDefault("export.palette.abilityAverage", def.Palette.AbilityAverage)
	v.SetDefault("export.palette.border", def.Palette.Border)

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.maxBodySize", "8M")

	v.SetDefault("source.driver", "")
	v.SetDefault("source.path", "")
	v.SetDefault("source.url", "")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.token", "")

	v.SetDefault("delivery.driver", "fs")
	v.SetDefault("delivery.dir", ".")
	v.SetDefault("delivery.s3.bucket", "")
	v.SetDefault("delivery.s3.region", "us-east-1")
	v.SetDefault("delivery.s3.endpoint", "")
	v.SetDefault("delivery.s3.pathStyle", false)
	v.SetDefault("delivery.s3.prefix", "exports")
}

// Load builds the configuration. Precedence, highest first: environment,
// config file, defaults. The .env file only feeds the environment.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, errors.Wrapf(err, "load env file %s", opts.EnvFile)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat env file %s", opts.EnvFile)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", opts.ConfigFile)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	c.Export.Palette = gradesheet.Options{Palette: c.Export.Palette}.Normalize().Palette
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Delivery.Driver == "s3" && c.Delivery.S3.Bucket == "" {
		return errors.New("invalid config: delivery.s3.bucket is required for the s3 driver")
	}
	return nil
}

// Options turns the export section into engine options.
func (e ExportConfig) Options() (gradesheet.Options, error) {
	labels, ok := gradesheet.LabelsFor(e.Labels)
	if !ok {
		return gradesheet.Options{}, errors.Errorf("unknown labels %q", e.Labels)
	}
	opts := gradesheet.Options{
		FileName:          e.FileName,
		ObservationsSheet: gradesheet.Bool(e.ObservationsSheet),
		ComputeAverages:   e.ComputeAverages,
		ShowIcon:          gradesheet.Bool(e.ShowIcon),
		StudentOrder:      gradesheet.StudentOrder(e.StudentOrder),
		Language:          e.Language,
		Palette:           e.Palette,
		Labels:            labels,
	}.Normalize()
	if err := opts.Validate(); err != nil {
		return gradesheet.Options{}, err
	}
	return opts, nil
}
