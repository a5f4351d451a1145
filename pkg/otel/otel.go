package otel

import (
	"context"
	"os"
	"strings"

	sdkresource "go.opentelemetry.io/otel/sdk/resource"

	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

const instrumentationName = "github.com/zhuxiaohai/philips-medical"

var (
	EnableDebug     = false
	EnableTelemetry = false
)

func init() {
	EnableDebug = os.Getenv("DEBUG") != ""
	EnableTelemetry = os.Getenv("TELEMETRY") != ""
}

type Observable interface {
	otelSetup()
}

func otlpProtocol(signal string) string {
	if val := strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_" + signal + "_PROTOCOL")); val != "" {
		return val
	}

	return strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"))
}

// Setup wires the OTLP exporters for traces, metrics and logs when telemetry
// is enabled.
func Setup(ctx context.Context, name, version string) error {
	if !EnableTelemetry {
		return nil
	}

	resource := sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(version),
	)

	if err := setupTracer(ctx, resource); err != nil {
		return err
	}

	if err := setupMeter(ctx, resource); err != nil {
		return err
	}

	if err := setupLogger(ctx, resource); err != nil {
		return err
	}

	return nil
}
