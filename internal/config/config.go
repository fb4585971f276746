package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	S3        S3Config
	Transcode TranscodeConfig
	Worker    WorkerConfig
	Logger    Logger
}

type ServerConfig struct {
	AppVersion  string
	Port        string
	Mode        string
	ReadTimeout int
	IdleTimeout int
}

type S3Config struct {
	Endpoint          string
	Region            string
	AccessKey         string
	SecretKey         string
	Bucket            string
	PresignTTLMinutes int
}

type TranscodeConfig struct {
	FFmpegPath string
	UploadDir  string
}

type WorkerConfig struct {
	MaxCPUUsage float64
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Transcode.FFmpegPath == "" {
		c.Transcode.FFmpegPath = "ffmpeg"
	}
	if c.Transcode.UploadDir == "" {
		c.Transcode.UploadDir = "uploads"
	}
	if c.S3.PresignTTLMinutes <= 0 {
		c.S3.PresignTTLMinutes = 60
	}
	return &c, nil
}
