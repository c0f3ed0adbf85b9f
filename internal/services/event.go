package services

import (
	"fmt"
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

// EventRepository interface for event data operations
type EventRepository interface {
	Create(req *models.EventCreateRequest) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	Update(id int, req *models.EventUpdateRequest) (*models.Event, error)
	UpdateStatus(id int, status models.EventStatus, reviewedBy *int, rejectionReason string) error
	Delete(id int) error
	Search(filters repositories.EventSearchFilters) ([]*models.Event, int, error)
	GetUpcomingPublished(limit int) ([]*models.Event, error)
	GetHeadlinedBy(artistID int) ([]*models.Event, error)
	GetWithArtistOnLineup(artistID int) ([]*models.Event, error)
	SearchFuzzy(query string, limit int) ([]*models.Event, error)
	CountByStatus() (map[models.EventStatus]int, error)
}

// EventService handles event lifecycle business logic. Events move
// through draft -> pending_review -> published or rejected; cancelled
// and archived are terminal.
type EventService struct {
	eventRepo EventRepository
	orgSvc    *OrganizationService
	activity  *ActivityService
	cache     *cache.Store
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, orgSvc *OrganizationService, activity *ActivityService, store *cache.Store) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		orgSvc:    orgSvc,
		activity:  activity,
		cache:     store,
	}
}

// CreateEvent creates a draft event for an organization the user
// administers.
func (s *EventService) CreateEvent(user *models.User, req *models.EventCreateRequest) (*models.Event, error) {
	admin, err := s.orgSvc.IsOrganizationAdmin(user, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.ErrUnauthorized
	}

	// New events always start as drafts regardless of the requested
	// status.
	req.Status = models.StatusDraft

	event, err := s.eventRepo.Create(req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "event.create", "event", event.ID, nil)
	}

	s.invalidate()
	return event, nil
}

// GetEvent retrieves an event by ID, cached
func (s *EventService) GetEvent(id int) (*models.Event, error) {
	key := cache.EventKey(id)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if event, ok := cached.(*models.Event); ok {
				return event, nil
			}
		}
	}

	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, event, time.Minute)
	}

	return event, nil
}

// UpdateEvent updates an event the user's organization owns. Published
// events drop back to pending review after an edit so changes are
// re-moderated.
func (s *EventService) UpdateEvent(user *models.User, id int, req *models.EventUpdateRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	admin, err := s.orgSvc.IsOrganizationAdmin(user, event.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.ErrUnauthorized
	}

	if !event.CanBeEdited() {
		return nil, fmt.Errorf("event can no longer be edited")
	}

	if event.IsPublished() && !user.IsStaff() {
		req.Status = models.StatusPendingReview
	} else {
		req.Status = event.Status
	}

	updated, err := s.eventRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "event.update", "event", id, nil)
	}

	s.invalidate()
	return updated, nil
}

// SubmitForReview moves a draft or rejected event into the moderation
// queue.
func (s *EventService) SubmitForReview(user *models.User, id int) error {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return err
	}

	admin, err := s.orgSvc.IsOrganizationAdmin(user, event.OrganizationID)
	if err != nil {
		return err
	}
	if !admin {
		return models.ErrUnauthorized
	}

	if event.Status != models.StatusDraft && event.Status != models.StatusRejected {
		return fmt.Errorf("only draft or rejected events can be submitted for review")
	}

	if err := s.eventRepo.UpdateStatus(id, models.StatusPendingReview, nil, ""); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "event.submit", "event", id, nil)
	}

	s.invalidate()
	return nil
}

// ApproveEvent publishes an event under review, platform staff only
func (s *EventService) ApproveEvent(reviewer *models.User, id int) error {
	return s.review(reviewer, id, models.StatusPublished, "")
}

// RejectEvent rejects an event under review with a reason, platform
// staff only
func (s *EventService) RejectEvent(reviewer *models.User, id int, reason string) error {
	if reason == "" {
		return fmt.Errorf("a rejection reason is required")
	}
	return s.review(reviewer, id, models.StatusRejected, reason)
}

func (s *EventService) review(reviewer *models.User, id int, status models.EventStatus, reason string) error {
	if reviewer == nil || !reviewer.IsStaff() {
		return models.ErrUnauthorized
	}

	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return err
	}

	if !event.IsPendingReview() {
		return fmt.Errorf("event is not pending review")
	}

	if err := s.eventRepo.UpdateStatus(id, status, &reviewer.ID, reason); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&reviewer.ID, "event.review", "event", id, nil)
	}

	s.invalidate()
	return nil
}

// CancelEvent cancels an event that has not yet ended
func (s *EventService) CancelEvent(user *models.User, id int) error {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return err
	}

	admin, err := s.orgSvc.IsOrganizationAdmin(user, event.OrganizationID)
	if err != nil {
		return err
	}
	if !admin {
		return models.ErrUnauthorized
	}

	if !event.CanBeCancelled() {
		return fmt.Errorf("event cannot be cancelled")
	}

	if err := s.eventRepo.UpdateStatus(id, models.StatusCancelled, nil, ""); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "event.cancel", "event", id, nil)
	}

	s.invalidate()
	return nil
}

// DeleteEvent deletes a draft event. Events past the draft stage are
// cancelled or archived instead so their history survives.
func (s *EventService) DeleteEvent(user *models.User, id int) error {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return err
	}

	admin, err := s.orgSvc.IsOrganizationAdmin(user, event.OrganizationID)
	if err != nil {
		return err
	}
	if !admin {
		return models.ErrUnauthorized
	}

	if !event.IsDraft() {
		return fmt.Errorf("only draft events can be deleted")
	}

	if err := s.eventRepo.Delete(id); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "event.delete", "event", id, nil)
	}

	s.invalidate()
	return nil
}

// SearchEvents searches events with filters. Non-staff callers only see
// published events.
func (s *EventService) SearchEvents(user *models.User, filters repositories.EventSearchFilters) ([]*models.Event, int, error) {
	if user == nil || !user.IsStaff() {
		filters.Status = models.StatusPublished
	}

	return s.eventRepo.Search(filters)
}

// GetUpcomingEvents lists upcoming published events, cached
func (s *EventService) GetUpcomingEvents(limit int) ([]*models.Event, error) {
	key := cache.EventListKey(string(models.StatusPublished), 0, 0, limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if events, ok := cached.([]*models.Event); ok {
				return events, nil
			}
		}
	}

	events, err := s.eventRepo.GetUpcomingPublished(limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, events, time.Minute)
	}

	return events, nil
}

// PendingReviewQueue lists events awaiting moderation, staff only
func (s *EventService) PendingReviewQueue(reviewer *models.User, limit, offset int) ([]*models.Event, int, error) {
	if reviewer == nil || !reviewer.IsStaff() {
		return nil, 0, models.ErrUnauthorized
	}

	return s.eventRepo.Search(repositories.EventSearchFilters{
		Status: models.StatusPendingReview,
		Limit:  limit,
		Offset: offset,
		SortBy: "created_at",
	})
}

// CountByStatus returns event counts per status for dashboards
func (s *EventService) CountByStatus() (map[models.EventStatus]int, error) {
	return s.eventRepo.CountByStatus()
}

func (s *EventService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.EventsKey())
	}
}
