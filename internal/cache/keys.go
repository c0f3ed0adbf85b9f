package cache

import (
	"fmt"
	"strings"
)

// Key factories produce hierarchical cache keys. Keys are colon-separated
// with the entity name first, so invalidating the entity prefix after a
// mutation drops every cached read for that entity.

// EventsKey is the root key for all event reads
func EventsKey() string {
	return "events"
}

// EventKey identifies a single event
func EventKey(id int) string {
	return fmt.Sprintf("events:detail:%d", id)
}

// EventListKey identifies a filtered event listing
func EventListKey(status string, organizationID, page, pageSize int) string {
	return fmt.Sprintf("events:list:%s:%d:%d:%d", status, organizationID, page, pageSize)
}

// EventSearchKey identifies a fuzzy search result set
func EventSearchKey(query string, limit int) string {
	return fmt.Sprintf("events:search:%s:%d", strings.ToLower(query), limit)
}

// ArtistsKey is the root key for all artist reads
func ArtistsKey() string {
	return "artists"
}

// ArtistKey identifies a single artist
func ArtistKey(id int) string {
	return fmt.Sprintf("artists:detail:%d", id)
}

// ArtistSearchKey identifies a fuzzy artist search result set
func ArtistSearchKey(query string, limit int) string {
	return fmt.Sprintf("artists:search:%s:%d", strings.ToLower(query), limit)
}

// ArtistEventsKey identifies an artist's merged event list
func ArtistEventsKey(artistID int) string {
	return fmt.Sprintf("artists:events:%d", artistID)
}

// VenuesKey is the root key for all venue reads
func VenuesKey() string {
	return "venues"
}

// VenueKey identifies a single venue
func VenueKey(id int) string {
	return fmt.Sprintf("venues:detail:%d", id)
}

// OrganizationsKey is the root key for all organization reads
func OrganizationsKey() string {
	return "organizations"
}

// OrganizationKey identifies a single organization
func OrganizationKey(id int) string {
	return fmt.Sprintf("organizations:detail:%d", id)
}

// OrganizationStaffKey identifies an organization's staff listing
func OrganizationStaffKey(organizationID int) string {
	return fmt.Sprintf("organizations:staff:%d", organizationID)
}

// TiersKey is the root key for all ticket tier reads
func TiersKey() string {
	return "tiers"
}

// EventTiersKey identifies an event's tier listing
func EventTiersKey(eventID int) string {
	return fmt.Sprintf("tiers:event:%d", eventID)
}

// RecordingsKey is the root key for all recording reads
func RecordingsKey() string {
	return "recordings"
}

// RecordingStatsKey identifies the aggregated rating dashboard
func RecordingStatsKey() string {
	return "recordings:stats"
}

// UserEventsKey identifies a user's grouped purchase history
func UserEventsKey(userID int) string {
	return fmt.Sprintf("orders:user-events:%d", userID)
}

// OrdersKey is the root key for all order reads
func OrdersKey() string {
	return "orders"
}
