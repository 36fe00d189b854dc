package urlstrategy

import (
	"fmt"
)

// URLStrategyType represents the type of URL strategy
type URLStrategyType string

const (
	// CDN strategy for images and assets served from a CDN
	StrategyTypeCDN URLStrategyType = "cdn"

	// Content-based strategy for site-routed URLs
	StrategyTypeContentBased URLStrategyType = "content-based"

	// Storage-delegated strategy for image URLs presigned by the blob store
	StrategyTypeStorageDelegated URLStrategyType = "storage-delegated"
)

// Config holds configuration for URL strategy creation
type Config struct {
	Type        URLStrategyType
	SiteBaseURL string    // Base for page URLs (all strategies)
	CDNBaseURL  string    // For CDN strategy
	BlobStore   BlobStore // For storage-delegated strategy
}

// NewURLStrategy creates a URL strategy based on the configuration
func NewURLStrategy(config Config) (URLStrategy, error) {
	switch config.Type {
	case StrategyTypeCDN:
		if config.CDNBaseURL == "" {
			return nil, fmt.Errorf("CDN base URL is required for CDN strategy")
		}
		return NewCDNStrategy(config.CDNBaseURL, config.SiteBaseURL), nil

	case StrategyTypeContentBased, "":
		return NewContentBasedStrategy(config.SiteBaseURL), nil

	case StrategyTypeStorageDelegated:
		if config.BlobStore == nil {
			return nil, fmt.Errorf("blob store is required for storage-delegated strategy")
		}
		return NewStorageDelegatedStrategy(config.BlobStore, config.SiteBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown URL strategy type: %s", config.Type)
	}
}

// NewRecommendedStrategy creates the recommended URL strategy based on environment
func NewRecommendedStrategy(environment string, cdnURL string, siteURL string) URLStrategy {
	if environment == "production" && cdnURL != "" {
		return NewCDNStrategy(cdnURL, siteURL)
	}
	return NewContentBasedStrategy(siteURL)
}
