// Package telemetry records command events and exceptions with OpenTelemetry.
//
// NewProviders builds tracer and meter providers from Config: no-op
// providers when telemetry is disabled, stdout exporters otherwise. Client
// wraps them with the two operations the commands need:
//
//	client.TrackEvent(ctx, "upgrade", attribute.String("config", path))
//	client.TrackException(ctx, err)
//
// Module wires both into an fx application and flushes the providers on stop.
package telemetry
