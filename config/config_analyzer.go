package config

import (
	"errors"
	"strings"

	"golang.org/x/time/rate"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
	"github.com/zhuxiaohai/philips-medical/pkg/analyzer/azure"
	"github.com/zhuxiaohai/philips-medical/pkg/limiter"
	"github.com/zhuxiaohai/philips-medical/pkg/otel"
)

func (cfg *Config) RegisterAnalyzer(id string, p analyzer.Provider) {
	if cfg.analyzers == nil {
		cfg.analyzers = make(map[string]analyzer.Provider)
	}

	if _, ok := cfg.analyzers[""]; !ok {
		cfg.analyzers[""] = p
	}

	cfg.analyzers[id] = p
}

func (cfg *Config) Analyzer(id string) (analyzer.Provider, error) {
	if cfg.analyzers != nil {
		if a, ok := cfg.analyzers[id]; ok {
			return a, nil
		}
	}

	return nil, errors.New("analyzer not found: " + id)
}

type analyzerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Limit *int `yaml:"limit"`
}

type analyzerContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) registerAnalyzers(f *configFile) error {
	var configs map[string]analyzerConfig

	if err := f.Analyzers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Analyzers.Content {
		id := node.Value

		config, ok := configs[id]

		if !ok {
			continue
		}

		context := analyzerContext{
			Limiter: createLimiter(config.Limit),
		}

		analyzer, err := createAnalyzer(config, context)

		if err != nil {
			return err
		}

		if _, ok := analyzer.(limiter.Analyzer); !ok {
			analyzer = limiter.NewAnalyzer(context.Limiter, analyzer)
		}

		if _, ok := analyzer.(otel.Analyzer); !ok {
			analyzer = otel.NewAnalyzer(id, "prebuilt-layout", analyzer)
		}

		cfg.RegisterAnalyzer(id, analyzer)
	}

	return nil
}

func createAnalyzer(cfg analyzerConfig, context analyzerContext) (analyzer.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "azure":
		return azureAnalyzer(cfg)

	default:
		return nil, errors.New("invalid analyzer type: " + cfg.Type)
	}
}

func azureAnalyzer(cfg analyzerConfig) (analyzer.Provider, error) {
	var options []azure.Option

	if cfg.Token != "" {
		options = append(options, azure.WithToken(cfg.Token))
	}

	return azure.New(cfg.URL, options...)
}
