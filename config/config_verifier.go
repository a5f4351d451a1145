package config

import (
	"github.com/zhuxiaohai/philips-medical/pkg/verifier"
)

type verifierConfig struct {
	MinPages int `yaml:"min_pages"`
	MaxPages int `yaml:"max_pages"`

	Concurrency int `yaml:"concurrency"`
}

func (cfg *Config) registerVerifier(f *configFile) error {
	provider, err := cfg.Analyzer("")

	if err != nil {
		return err
	}

	minPages := f.Verifier.MinPages

	if minPages <= 0 {
		minPages = 1
	}

	v, err := verifier.New(provider,
		verifier.WithPageRange(minPages, f.Verifier.MaxPages),
		verifier.WithConcurrency(f.Verifier.Concurrency),
		verifier.WithRenderer(cfg.Renderer),
	)

	if err != nil {
		return err
	}

	cfg.Verifier = v

	return nil
}
