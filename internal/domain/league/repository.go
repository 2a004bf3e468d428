package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	UpsertByProviderID(ctx context.Context, leagues []League) error
	ListActive(ctx context.Context) ([]League, error)
}
