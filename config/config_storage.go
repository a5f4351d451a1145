package config

import (
	"os"

	"github.com/zhuxiaohai/philips-medical/pkg/document"
	"github.com/zhuxiaohai/philips-medical/pkg/render"
)

type storageConfig struct {
	Data   string `yaml:"data"`
	Images string `yaml:"images"`
}

func (cfg *Config) registerStorage(f *configFile) error {
	cfg.DataDir = f.Storage.Data

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	cfg.ImageDir = f.Storage.Images

	if cfg.ImageDir == "" {
		cfg.ImageDir = "images"
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.ImageDir, 0o755); err != nil {
		return err
	}

	cfg.Resolver = document.NewResolver(cfg.DataDir)
	cfg.Renderer = render.New(cfg.ImageDir, cfg.PublicURL)

	return nil
}
