package services

import (
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
)

// ArtistRepository interface for artist data operations
type ArtistRepository interface {
	Create(req *models.ArtistCreateRequest) (*models.Artist, error)
	GetByID(id int) (*models.Artist, error)
	Update(id int, req *models.ArtistUpdateRequest) (*models.Artist, error)
	Delete(id int) error
	List(limit, offset int) ([]*models.Artist, int, error)
	SearchFuzzy(query string, limit int) ([]*models.Artist, error)
}

// ArtistService handles artist business logic
type ArtistService struct {
	artistRepo ArtistRepository
	eventRepo  EventRepository
	activity   *ActivityService
	cache      *cache.Store
}

// NewArtistService creates a new artist service
func NewArtistService(artistRepo ArtistRepository, eventRepo EventRepository, activity *ActivityService, store *cache.Store) *ArtistService {
	return &ArtistService{
		artistRepo: artistRepo,
		eventRepo:  eventRepo,
		activity:   activity,
		cache:      store,
	}
}

// CreateArtist creates an artist profile, staff only
func (s *ArtistService) CreateArtist(user *models.User, req *models.ArtistCreateRequest) (*models.Artist, error) {
	if user == nil || !user.HasPermission(models.PermissionManageArtists) {
		return nil, models.ErrUnauthorized
	}

	artist, err := s.artistRepo.Create(req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "artist.create", "artist", artist.ID, nil)
	}

	s.invalidate()
	return artist, nil
}

// GetArtist retrieves an artist by ID, cached
func (s *ArtistService) GetArtist(id int) (*models.Artist, error) {
	key := cache.ArtistKey(id)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if artist, ok := cached.(*models.Artist); ok {
				return artist, nil
			}
		}
	}

	artist, err := s.artistRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, artist, 5*time.Minute)
	}

	return artist, nil
}

// UpdateArtist updates an artist profile, staff only
func (s *ArtistService) UpdateArtist(user *models.User, id int, req *models.ArtistUpdateRequest) (*models.Artist, error) {
	if user == nil || !user.HasPermission(models.PermissionManageArtists) {
		return nil, models.ErrUnauthorized
	}

	artist, err := s.artistRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "artist.update", "artist", id, nil)
	}

	s.invalidate()
	return artist, nil
}

// DeleteArtist deletes an artist profile, staff only
func (s *ArtistService) DeleteArtist(user *models.User, id int) error {
	if user == nil || !user.HasPermission(models.PermissionManageArtists) {
		return models.ErrUnauthorized
	}

	if err := s.artistRepo.Delete(id); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "artist.delete", "artist", id, nil)
	}

	s.invalidate()
	return nil
}

// ListArtists lists artists with pagination
func (s *ArtistService) ListArtists(limit, offset int) ([]*models.Artist, int, error) {
	return s.artistRepo.List(limit, offset)
}

// GetArtistEvents returns every event an artist appears at, whether as
// headliner or on the lineup. An event where the artist both headlines
// and appears on the lineup is returned once.
func (s *ArtistService) GetArtistEvents(artistID int) ([]*models.Event, error) {
	key := cache.ArtistEventsKey(artistID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if events, ok := cached.([]*models.Event); ok {
				return events, nil
			}
		}
	}

	if _, err := s.artistRepo.GetByID(artistID); err != nil {
		return nil, err
	}

	headlined, err := s.eventRepo.GetHeadlinedBy(artistID)
	if err != nil {
		return nil, err
	}

	onLineup, err := s.eventRepo.GetWithArtistOnLineup(artistID)
	if err != nil {
		return nil, err
	}

	events := MergeEventLists(headlined, onLineup)

	if s.cache != nil {
		s.cache.Set(key, events, time.Minute)
	}

	return events, nil
}

// MergeEventLists merges event lists preserving order of first
// appearance and dropping duplicates by event ID.
func MergeEventLists(lists ...[]*models.Event) []*models.Event {
	seen := make(map[int]bool)
	var merged []*models.Event

	for _, list := range lists {
		for _, event := range list {
			if seen[event.ID] {
				continue
			}
			seen[event.ID] = true
			merged = append(merged, event)
		}
	}

	return merged
}

func (s *ArtistService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.ArtistsKey())
	}
}
