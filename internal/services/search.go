package services

import (
	"strings"
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
)

// SearchService provides fuzzy search across events and artists. Queries
// run through trigram similarity in the database, so typos and partial
// names still match; results come back ranked by similarity.
type SearchService struct {
	eventRepo  EventRepository
	artistRepo ArtistRepository
	cache      *cache.Store
}

// NewSearchService creates a new search service
func NewSearchService(eventRepo EventRepository, artistRepo ArtistRepository, store *cache.Store) *SearchService {
	return &SearchService{
		eventRepo:  eventRepo,
		artistRepo: artistRepo,
		cache:      store,
	}
}

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchEvents fuzzy searches published events by title. A blank query
// returns no results rather than everything.
func (s *SearchService) SearchEvents(query string, limit int) ([]*models.Event, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	limit = clampLimit(limit)

	key := cache.EventSearchKey(query, limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if events, ok := cached.([]*models.Event); ok {
				return events, nil
			}
		}
	}

	events, err := s.eventRepo.SearchFuzzy(query, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, events, 30*time.Second)
	}

	return events, nil
}

// SearchArtists fuzzy searches artists by name
func (s *SearchService) SearchArtists(query string, limit int) ([]*models.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	limit = clampLimit(limit)

	key := cache.ArtistSearchKey(query, limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if artists, ok := cached.([]*models.Artist); ok {
				return artists, nil
			}
		}
	}

	artists, err := s.artistRepo.SearchFuzzy(query, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, artists, 30*time.Second)
	}

	return artists, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}
