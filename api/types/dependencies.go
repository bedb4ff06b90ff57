package types

import (
	"xyzrss/internal/services/bridge"
	"xyzrss/internal/services/cache"
	"xyzrss/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	FeedBuilder bridge.FeedBuilder
	Cache       cache.Cache
	Config      *config.Config
}
