package config

import (
	"errors"
	"fmt"

	"github.com/jjohnsen/azure-devops-migration-tools/logging"
	"github.com/jjohnsen/azure-devops-migration-tools/telemetry"
)

// DefaultServiceName names the telemetry service when settings omit it.
const DefaultServiceName = "migration-tools"

// ErrInvalidSettings is returned when host settings fail validation.
var ErrInvalidSettings = errors.New("invalid host settings")

// HostSettings is the tool's own configuration, read from the base settings
// file (appsettings.json). It is separate from the migration configuration
// document the tool edits.
type HostSettings struct {
	Logging   logging.LoggerConfig `yaml:"Logging"`
	Telemetry telemetry.Config     `yaml:"Telemetry"`
}

// SetDefaults fills in the telemetry service name and log format.
func (s *HostSettings) SetDefaults() bool {
	changed := false

	if s.Telemetry.ServiceName == "" {
		s.Telemetry.ServiceName = DefaultServiceName
		changed = true
	}

	if s.Logging.Format == "" {
		s.Logging.Format = logging.FormatJSON
		changed = true
	}

	return changed
}

// Validate rejects unknown log formats and telemetry exporters.
func (s *HostSettings) Validate() error {
	if !logging.ValidFormat(s.Logging.Format) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidSettings, s.Logging.Format)
	}

	if !telemetry.ValidExporter(s.Telemetry.Exporter) {
		return fmt.Errorf("%w: unknown telemetry exporter %q", ErrInvalidSettings, s.Telemetry.Exporter)
	}

	return nil
}
