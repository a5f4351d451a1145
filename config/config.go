package config

import (
	"bytes"
	"os"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
	"github.com/zhuxiaohai/philips-medical/pkg/auth"
	"github.com/zhuxiaohai/philips-medical/pkg/document"
	"github.com/zhuxiaohai/philips-medical/pkg/render"
	"github.com/zhuxiaohai/philips-medical/pkg/verifier"
)

type Config struct {
	Address string

	PublicURL string

	DataDir  string
	ImageDir string

	Authorizers []auth.Provider

	analyzers map[string]analyzer.Provider

	Resolver *document.Resolver
	Renderer *render.Renderer
	Verifier *verifier.Verifier
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":4501",
	}

	if err := c.registerServer(file); err != nil {
		return nil, err
	}

	if err := c.registerAuthorizers(file); err != nil {
		return nil, err
	}

	if err := c.registerStorage(file); err != nil {
		return nil, err
	}

	if err := c.registerAnalyzers(file); err != nil {
		return nil, err
	}

	if err := c.registerVerifier(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	PublicURL string `yaml:"public_url"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Storage storageConfig `yaml:"storage"`

	Analyzers yaml.Node `yaml:"analyzers"`

	Verifier verifierConfig `yaml:"verifier"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (cfg *Config) registerServer(f *configFile) error {
	if f.Address != "" {
		cfg.Address = f.Address
	}

	cfg.PublicURL = f.PublicURL

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost" + cfg.Address
	}

	return nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
