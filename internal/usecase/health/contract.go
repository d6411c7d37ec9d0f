package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// UpstreamPinger checks recipe API availability with the service token.
type UpstreamPinger interface {
	Ping(ctx context.Context, token string) error
}
