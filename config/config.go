package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/daedaleanai/fpgaflow/log"
)

// Configuration keys. Each can also be set through a FPGAFLOW_<KEY> environment variable.
const (
	KeyOutputDir = "output_dir"
	KeyUse       = "use"
	KeyBinary    = "binary"
	KeyTimeout   = "timeout"
	KeyBoardsDir = "boards_dir"
)

const envPrefix = "FPGAFLOW"
const configName = "config"

type Config struct {
	OutputDir string        `mapstructure:"output_dir"`
	Use       string        `mapstructure:"use"`
	Binary    string        `mapstructure:"binary"`
	Timeout   time.Duration `mapstructure:"timeout"`
	BoardsDir string        `mapstructure:"boards_dir"`
}

var settings = New()
var config *Config

// Dir returns the directory holding config.yaml.
func Dir() (string, error) {
	if dir, ok := os.LookupEnv("FPGAFLOW_CONFIG_DIR"); ok {
		return dir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return filepath.Join(xdgConfigHome, "fpgaflow"), nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", errors.New("unable to locate the configuration directory")
	}
	return filepath.Join(home, ".config", "fpgaflow"), nil
}

// New returns a viper instance with the defaults and environment bindings of all keys.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutputDir, "./xilinx/")
	v.SetDefault(KeyUse, "verilog")
	v.SetDefault(KeyBinary, "")
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyBoardsDir, "boards")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	return v
}

// Load reads config.yaml, if any, into `v` and decodes the result.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config

	if dir, err := Dir(); err != nil {
		log.Debug("%s. Using default configuration.\n", err)
	} else {
		v.AddConfigPath(dir)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			log.Debug("No configuration file in '%s'. Using default configuration.\n", dir)
		case err != nil:
			return cfg, err
		default:
			log.Debug("Loaded configuration from '%s'.\n", v.ConfigFileUsed())
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	log.Debug("Running with configuration: %+v\n", cfg)
	return cfg, nil
}

// Settings returns the process wide viper instance. Commands bind their flags to it.
func Settings() *viper.Viper {
	return settings
}

// GetConfig loads the process wide configuration once.
func GetConfig() Config {
	if config == nil {
		loaded, err := Load(settings)
		if err != nil {
			log.Fatal("Failed to read configuration: %s\n", err)
		}
		config = &loaded
	}
	return *config
}
