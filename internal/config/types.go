// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package config

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	Audit     Audit     `mapstructure:"audit"`
	API       API       `mapstructure:"api"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Audit configuration settings.
type Audit struct {
	// Type selects the store backend. Only "sql" is implemented.
	Type string `mapstructure:"type"            validate:"required,oneof=sql"`
	SQL  SQL    `mapstructure:"sql"`
	Keys Keys   `mapstructure:"keys"`
	// ServerIdentity is written to entries that do not record one.
	ServerIdentity string `mapstructure:"server_identity" validate:"max=20"`
}

// SQL configuration for the relational store.
type SQL struct {
	// URL is the database location passed to the driver, e.g. a file path
	// or "file::memory:?cache=shared".
	URL string `mapstructure:"url" validate:"required"`
	// HighWatermark is the entry count above which cleanup deletes.
	HighWatermark int `mapstructure:"high_watermark" validate:"gte=0"`
	// LowWatermark is the number of newest ids cleanup keeps.
	LowWatermark int `mapstructure:"low_watermark" validate:"gte=0,ltefield=HighWatermark"`
}

// Keys locates the PEM encoded signing key pair. Either path may be empty.
type Keys struct {
	Public  string `mapstructure:"public"`
	Private string `mapstructure:"private"`
}

// API configuration settings.
type API struct {
	Server Server `mapstructure:"server"`
}

// Server configuration settings.
type Server struct {
	// Port the server will bind to.
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
	// CORS settings for browser clients of the audit API.
	CORS CORS `mapstructure:"cors"`
	// Security guards the audit routes with bearer tokens.
	Security ServerSecurity `mapstructure:"security"`
}

// ServerSecurity represents security-related settings for the server.
type ServerSecurity struct {
	// SigningKey is the HMAC key tokens are signed with. Routes are open
	// when it is empty.
	SigningKey string `mapstructure:"signing_key"`
	// Roles defines custom roles with fine-grained permissions.
	Roles map[string]CustomRole `mapstructure:"roles" validate:"dive"`
}

// CustomRole defines a named set of permissions that can be assigned to tokens.
type CustomRole struct {
	// Permissions granted to this role.
	Permissions []string `mapstructure:"permissions" validate:"dive,oneof=audit:read audit:write health:read"`
}

// CORS configuration settings.
type CORS struct {
	// AllowOrigins lists the origins allowed to call the API.
	AllowOrigins []string `mapstructure:"allow_origins,omitempty"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=none stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}
