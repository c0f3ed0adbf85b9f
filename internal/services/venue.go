package services

import (
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
)

// VenueRepository interface for venue data operations
type VenueRepository interface {
	Create(req *models.VenueCreateRequest) (*models.Venue, error)
	GetByID(id int) (*models.Venue, error)
	Update(id int, req *models.VenueUpdateRequest) (*models.Venue, error)
	Delete(id int) error
	List(limit, offset int) ([]*models.Venue, int, error)
}

// VenueService handles venue business logic
type VenueService struct {
	venueRepo VenueRepository
	activity  *ActivityService
	cache     *cache.Store
}

// NewVenueService creates a new venue service
func NewVenueService(venueRepo VenueRepository, activity *ActivityService, store *cache.Store) *VenueService {
	return &VenueService{
		venueRepo: venueRepo,
		activity:  activity,
		cache:     store,
	}
}

// CreateVenue creates a venue, staff only
func (s *VenueService) CreateVenue(user *models.User, req *models.VenueCreateRequest) (*models.Venue, error) {
	if user == nil || !user.HasPermission(models.PermissionManageVenues) {
		return nil, models.ErrUnauthorized
	}

	venue, err := s.venueRepo.Create(req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "venue.create", "venue", venue.ID, nil)
	}

	s.invalidate()
	return venue, nil
}

// GetVenue retrieves a venue by ID, cached
func (s *VenueService) GetVenue(id int) (*models.Venue, error) {
	key := cache.VenueKey(id)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if venue, ok := cached.(*models.Venue); ok {
				return venue, nil
			}
		}
	}

	venue, err := s.venueRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, venue, 5*time.Minute)
	}

	return venue, nil
}

// UpdateVenue updates a venue, staff only
func (s *VenueService) UpdateVenue(user *models.User, id int, req *models.VenueUpdateRequest) (*models.Venue, error) {
	if user == nil || !user.HasPermission(models.PermissionManageVenues) {
		return nil, models.ErrUnauthorized
	}

	venue, err := s.venueRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "venue.update", "venue", id, nil)
	}

	s.invalidate()
	return venue, nil
}

// DeleteVenue deletes a venue, staff only
func (s *VenueService) DeleteVenue(user *models.User, id int) error {
	if user == nil || !user.HasPermission(models.PermissionManageVenues) {
		return models.ErrUnauthorized
	}

	if err := s.venueRepo.Delete(id); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "venue.delete", "venue", id, nil)
	}

	s.invalidate()
	return nil
}

// ListVenues lists venues with pagination
func (s *VenueService) ListVenues(limit, offset int) ([]*models.Venue, int, error) {
	return s.venueRepo.List(limit, offset)
}

func (s *VenueService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.VenuesKey())
	}
}
