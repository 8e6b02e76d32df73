package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis keys and TTL values for the TourDesk application
// Pattern: tourdesk:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for category listings
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for tour details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for tour listings
)

// Short-lived locks
const (
	TTL_LOCK_SHORT = 30 * time.Second // 30 seconds - for in-flight request claims
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "tourdesk"
)

// ================== TOURS MODULE ==================

// Tour Cache Keys
const (
	CACHE_KEY_TOURS_LIST   = CACHE_PREFIX + ":tours:list"         // + :page:X:limit:Y:category:Z:search:Q
	CACHE_KEY_TOUR_BY_SLUG = CACHE_PREFIX + ":tours:detail:slug:" // + tour-slug
)

// Tour Cache TTLs
const (
	TTL_TOUR_LIST   = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_TOUR_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== CATEGORIES MODULE ==================

// Category Cache Keys
const (
	CACHE_KEY_CATEGORIES_ACTIVE = CACHE_PREFIX + ":categories:active:all"   // Active categories list
	CACHE_KEY_CATEGORY_BY_SLUG  = CACHE_PREFIX + ":categories:detail:slug:" // + category-slug
)

// Category Cache TTLs
const (
	TTL_CATEGORIES_ACTIVE = TTL_STATIC_SHORT // 6 hours
	TTL_CATEGORY_DETAIL   = TTL_STATIC_LONG  // 24 hours
)

// ================== BOOKINGS MODULE ==================

// Booking keys; bookings themselves are never cached
const (
	LOCK_KEY_BOOKING_IDEMPOTENCY = CACHE_PREFIX + ":bookings:idempotency:" // + idempotency-key
)

// Booking lock TTLs
const (
	TTL_BOOKING_IDEMPOTENCY_LOCK = TTL_LOCK_SHORT // 30 seconds
)

// ================== RATE LIMITING ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit" // + :type:client
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (used with Redis SCAN)
const (
	PATTERN_INVALIDATE_TOURS_ALL      = CACHE_PREFIX + ":tours:*"
	PATTERN_INVALIDATE_CATEGORIES_ALL = CACHE_PREFIX + ":categories:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildTourListKey constructs the listing key
// Example: BuildTourListKey(1, 12, "food", "") -> "tourdesk:tours:list:page:1:limit:12:category:food:search:"
func BuildTourListKey(page, limit int, category, search string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:category:%s:search:%s", CACHE_KEY_TOURS_LIST, page, limit, category, search)
}

func BuildTourBySlugKey(slug string) string {
	return CACHE_KEY_TOUR_BY_SLUG + slug
}

func BuildCategoryBySlugKey(slug string) string {
	return CACHE_KEY_CATEGORY_BY_SLUG + slug
}

func BuildIdempotencyLockKey(key string) string {
	return LOCK_KEY_BOOKING_IDEMPOTENCY + key
}

func BuildRateLimitKey(limitType, client string) string {
	return fmt.Sprintf("%s:%s:%s", RATE_LIMIT_PREFIX, limitType, client)
}
