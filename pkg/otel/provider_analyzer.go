package otel

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
)

type Analyzer interface {
	Observable
	analyzer.Provider
}

type observableAnalyzer struct {
	name     string
	provider string

	analyzer analyzer.Provider
}

func NewAnalyzer(provider, name string, p analyzer.Provider) Analyzer {
	return &observableAnalyzer{
		analyzer: p,

		name:     name,
		provider: provider,
	}
}

func (p *observableAnalyzer) otelSetup() {
}

func (p *observableAnalyzer) Analyze(ctx context.Context, input analyzer.Input, options *analyzer.AnalyzeOptions) (*analyzer.Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "analyze "+p.name)
	defer span.End()

	result, err := p.analyzer.Analyze(ctx, input, options)

	return result, err
}
