package config

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

type Config struct {
	Port               int     `mapstructure:"port"`
	Password           string  `mapstructure:"password"`
	DataRoot           string  `mapstructure:"data_root"`
	ModelPath          string  `mapstructure:"model_path"`
	ConfigPath         string  `mapstructure:"config_path"`
	DetectionThreshold float64 `mapstructure:"detection_threshold"`
	PersonClassID      int     `mapstructure:"person_class_id"`
	CameraDevice       int     `mapstructure:"camera_device"`
	DefaultGain        float64 `mapstructure:"default_gain"`
	Enhancer           string  `mapstructure:"enhancer"` // gamma, linear or clahe
	DatabasePath       string  `mapstructure:"database_path"`
	LogDirectory       string  `mapstructure:"log_dir"`
	LogLevel           string  `mapstructure:"log_level"`
	PreviewRate        float64 `mapstructure:"preview_rate"` // preview requests per second per client
	PreviewBurst       int     `mapstructure:"preview_burst"`
}

// ImageDirectory is where confirmed person crops are written.
func (c *Config) ImageDirectory() string {
	return filepath.Join(c.DataRoot, "images")
}

// SurveyFile is the spreadsheet every submitted survey is appended to.
func (c *Config) SurveyFile() string {
	return filepath.Join(c.DataRoot, "tourist_survey.xlsx")
}

// Load reads configuration from .env, an optional config.yaml and the environment.
// Environment keys are the upper-cased field names, e.g. DATA_ROOT or LOG_DIR.
func Load() (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("password", "kiosk")
	v.SetDefault("data_root", "tourist_data")
	v.SetDefault("model_path", filepath.Join(".", "models", "frozen_inference_graph.pb"))
	v.SetDefault("config_path", filepath.Join(".", "models", "ssd_mobilenet_v1_coco_2017_11_17.pbtxt"))
	v.SetDefault("detection_threshold", 0.5)
	v.SetDefault("person_class_id", 1)
	v.SetDefault("camera_device", 0)
	v.SetDefault("default_gain", 1.5)
	v.SetDefault("enhancer", "gamma")
	v.SetDefault("database_path", filepath.Join("tourist_data", "captures.db"))
	v.SetDefault("log_dir", filepath.Join(".", "logs"))
	v.SetDefault("log_level", "info")
	v.SetDefault("preview_rate", 4.0)
	v.SetDefault("preview_burst", 4)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}
