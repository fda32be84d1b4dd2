package discovery

import (
	"context"

	"discovery/pkg/domain"
)

//go:generate mockgen -package mockdiscovery -source=interface.go -destination=mock/mockdiscovery.go *
type Discoverer interface {
	Discover(ctx context.Context, req domain.DiscoveryRequest) (*domain.DiscoveryResult, error)
}
