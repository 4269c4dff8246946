package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixOffers is the prefix for cached provider responses
	KeyPrefixOffers = "cxr:offers:"
	// KeyRouteSearches is the sorted set of hub>destination search counts
	KeyRouteSearches = "cxr:routes:searches"
	// KeyOriginHits is the sorted set of alternate origins that produced offers
	KeyOriginHits = "cxr:origins:hits"
)

// OfferKey returns the Redis key for a cached provider response by request hash
func OfferKey(hash string) string {
	return KeyPrefixOffers + hash
}

// RouteMember encodes a hub/destination pair as a sorted-set member
func RouteMember(hub, dest string) string {
	return strings.ToUpper(hub) + ">" + strings.ToUpper(dest)
}

// ParseRouteMember splits a member written by RouteMember
func ParseRouteMember(member string) (hub, dest string, err error) {
	hub, dest, ok := strings.Cut(member, ">")
	if !ok || hub == "" || dest == "" {
		return "", "", fmt.Errorf("invalid route member: %s", member)
	}
	return hub, dest, nil
}

// ExtractOfferHash extracts the request hash from an offer cache key
func ExtractOfferHash(key string) (string, error) {
	if len(key) <= len(KeyPrefixOffers) || !strings.HasPrefix(key, KeyPrefixOffers) {
		return "", fmt.Errorf("invalid offer key: %s", key)
	}
	return key[len(KeyPrefixOffers):], nil
}
