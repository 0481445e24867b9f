package events

import "github.com/rs/zerolog"

// Sink receives audit notifications from the grant and revocation handlers.
// Sinks are observability only: they must never influence the outcome of a
// grant.
type Sink interface {
	AccessGranted(clientID, grantType, scope string)
	TokenRevoked(clientID, tokenID string)

	// Anomaly reports a state worth operator attention, such as a consumed
	// authorization code with no issued token after a mid-grant
	// cancellation.
	Anomaly(message string, err error)
}

// ZerologSink writes audit events through a zerolog logger.
type ZerologSink struct {
	log zerolog.Logger
}

func NewZerologSink(log zerolog.Logger) *ZerologSink {
	return &ZerologSink{log: log}
}

var _ Sink = (*ZerologSink)(nil)

func (s *ZerologSink) AccessGranted(clientID, grantType, scope string) {
	s.log.Info().
		Str("client_id", clientID).
		Str("grant_type", grantType).
		Str("scope", scope).
		Msg("access granted")
}

func (s *ZerologSink) TokenRevoked(clientID, tokenID string) {
	s.log.Info().
		Str("client_id", clientID).
		Str("token_id", tokenID).
		Msg("token revoked")
}

func (s *ZerologSink) Anomaly(message string, err error) {
	s.log.Error().Err(err).Msg(message)
}

// NoopSink discards all events.
type NoopSink struct{}

var _ Sink = NoopSink{}

func (NoopSink) AccessGranted(string, string, string) {}
func (NoopSink) TokenRevoked(string, string)          {}
func (NoopSink) Anomaly(string, error)                {}
