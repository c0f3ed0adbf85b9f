package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

type mockEventRepository struct {
	events map[int]*models.Event
	nextID int
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: make(map[int]*models.Event), nextID: 1}
}

func (m *mockEventRepository) addEvent(orgID int, status models.EventStatus, start time.Time) *models.Event {
	event := &models.Event{
		ID:             m.nextID,
		OrganizationID: orgID,
		Title:          "Show",
		Status:         status,
		StartDate:      start,
		EndDate:        start.Add(4 * time.Hour),
	}
	m.events[event.ID] = event
	m.nextID++
	return event
}

func (m *mockEventRepository) Create(req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	event := &models.Event{
		ID:             m.nextID,
		OrganizationID: req.OrganizationID,
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         req.Status,
	}
	m.events[event.ID] = event
	m.nextID++
	return event, nil
}

func (m *mockEventRepository) GetByID(id int) (*models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}

func (m *mockEventRepository) Update(id int, req *models.EventUpdateRequest) (*models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	event.Title = req.Title
	event.Description = req.Description
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Status = req.Status
	return event, nil
}

func (m *mockEventRepository) UpdateStatus(id int, status models.EventStatus, reviewedBy *int, rejectionReason string) error {
	event, ok := m.events[id]
	if !ok {
		return models.ErrEventNotFound
	}
	event.Status = status
	event.ReviewedBy = reviewedBy
	event.RejectionReason = rejectionReason
	return nil
}

func (m *mockEventRepository) Delete(id int) error {
	if _, ok := m.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepository) Search(filters repositories.EventSearchFilters) ([]*models.Event, int, error) {
	var events []*models.Event
	for i := 1; i < m.nextID; i++ {
		event, ok := m.events[i]
		if !ok {
			continue
		}
		if filters.Status != "" && event.Status != filters.Status {
			continue
		}
		if filters.OrganizationID != 0 && event.OrganizationID != filters.OrganizationID {
			continue
		}
		events = append(events, event)
	}
	return events, len(events), nil
}

func (m *mockEventRepository) GetUpcomingPublished(limit int) ([]*models.Event, error) {
	var events []*models.Event
	now := time.Now()
	for i := 1; i < m.nextID; i++ {
		event, ok := m.events[i]
		if ok && event.IsPublished() && event.IsUpcoming(now) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *mockEventRepository) GetHeadlinedBy(artistID int) ([]*models.Event, error) {
	var events []*models.Event
	for i := 1; i < m.nextID; i++ {
		event, ok := m.events[i]
		if ok && event.HeadlinerID != nil && *event.HeadlinerID == artistID {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *mockEventRepository) GetWithArtistOnLineup(artistID int) ([]*models.Event, error) {
	var events []*models.Event
	for i := 1; i < m.nextID; i++ {
		event, ok := m.events[i]
		if !ok {
			continue
		}
		for _, artist := range event.Lineup {
			if artist.ID == artistID {
				events = append(events, event)
				break
			}
		}
	}
	return events, nil
}

func (m *mockEventRepository) SearchFuzzy(query string, limit int) ([]*models.Event, error) {
	return nil, nil
}

func (m *mockEventRepository) CountByStatus() (map[models.EventStatus]int, error) {
	counts := make(map[models.EventStatus]int)
	for _, event := range m.events {
		counts[event.Status]++
	}
	return counts, nil
}

// newTestOrgService builds an organization service over a mock org repo
// with one organization whose admin is user 1.
func newTestOrgService() (*OrganizationService, *mockOrganizationRepository) {
	orgRepo := newMockOrganizationRepository()
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 1}] = models.StaffRoleOwner
	return NewOrganizationService(orgRepo, nil, nil), orgRepo
}

func TestEventService_ModerationWorkflow(t *testing.T) {
	eventRepo := newMockEventRepository()
	orgSvc, _ := newTestOrgService()
	svc := NewEventService(eventRepo, orgSvc, nil, nil)

	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	reviewer := &models.User{ID: 2, Role: models.RoleFMStaff}

	start := time.Now().Add(30 * 24 * time.Hour)
	event, err := svc.CreateEvent(organizer, &models.EventCreateRequest{
		OrganizationID: 1,
		Title:          "Warehouse Night",
		StartDate:      start,
		EndDate:        start.Add(6 * time.Hour),
		Status:         models.StatusPublished, // ignored; events start as drafts
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, event.Status)

	// A draft cannot be approved before it is submitted
	err = svc.ApproveEvent(reviewer, event.ID)
	assert.Error(t, err)

	require.NoError(t, svc.SubmitForReview(organizer, event.ID))
	assert.Equal(t, models.StatusPendingReview, event.Status)

	// Organizers cannot approve their own events
	err = svc.ApproveEvent(organizer, event.ID)
	assert.Equal(t, models.ErrUnauthorized, err)

	require.NoError(t, svc.ApproveEvent(reviewer, event.ID))
	assert.Equal(t, models.StatusPublished, event.Status)
	require.NotNil(t, event.ReviewedBy)
	assert.Equal(t, reviewer.ID, *event.ReviewedBy)
}

func TestEventService_RejectRequiresReason(t *testing.T) {
	eventRepo := newMockEventRepository()
	orgSvc, _ := newTestOrgService()
	svc := NewEventService(eventRepo, orgSvc, nil, nil)

	event := eventRepo.addEvent(1, models.StatusPendingReview, time.Now().Add(24*time.Hour))
	reviewer := &models.User{ID: 2, Role: models.RoleFMStaff}

	err := svc.RejectEvent(reviewer, event.ID, "")
	assert.Error(t, err)

	require.NoError(t, svc.RejectEvent(reviewer, event.ID, "missing venue details"))
	assert.Equal(t, models.StatusRejected, event.Status)
	assert.Equal(t, "missing venue details", event.RejectionReason)

	// Rejected events can be resubmitted
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	require.NoError(t, svc.SubmitForReview(organizer, event.ID))
	assert.Equal(t, models.StatusPendingReview, event.Status)
}

func TestEventService_CreateRequiresOrgAdmin(t *testing.T) {
	eventRepo := newMockEventRepository()
	orgSvc, _ := newTestOrgService()
	svc := NewEventService(eventRepo, orgSvc, nil, nil)

	stranger := &models.User{ID: 99, Role: models.RoleOrganizer}
	start := time.Now().Add(24 * time.Hour)

	_, err := svc.CreateEvent(stranger, &models.EventCreateRequest{
		OrganizationID: 1,
		Title:          "Hostile Takeover",
		StartDate:      start,
		EndDate:        start.Add(2 * time.Hour),
		Status:         models.StatusDraft,
	})
	assert.Equal(t, models.ErrUnauthorized, err)
}

func TestEventService_DeleteOnlyDrafts(t *testing.T) {
	eventRepo := newMockEventRepository()
	orgSvc, _ := newTestOrgService()
	svc := NewEventService(eventRepo, orgSvc, nil, nil)

	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}

	published := eventRepo.addEvent(1, models.StatusPublished, time.Now().Add(24*time.Hour))
	err := svc.DeleteEvent(organizer, published.ID)
	assert.Error(t, err)

	draft := eventRepo.addEvent(1, models.StatusDraft, time.Now().Add(24*time.Hour))
	require.NoError(t, svc.DeleteEvent(organizer, draft.ID))

	_, err = eventRepo.GetByID(draft.ID)
	assert.Equal(t, models.ErrEventNotFound, err)
}

func TestEventService_SearchHidesUnpublished(t *testing.T) {
	eventRepo := newMockEventRepository()
	eventRepo.addEvent(1, models.StatusPublished, time.Now().Add(24*time.Hour))
	eventRepo.addEvent(1, models.StatusDraft, time.Now().Add(24*time.Hour))
	eventRepo.addEvent(1, models.StatusPendingReview, time.Now().Add(24*time.Hour))

	orgSvc, _ := newTestOrgService()
	svc := NewEventService(eventRepo, orgSvc, nil, nil)

	events, total, err := svc.SearchEvents(nil, repositories.EventSearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusPublished, events[0].Status)

	staff := &models.User{ID: 2, Role: models.RoleAdmin}
	_, total, err = svc.SearchEvents(staff, repositories.EventSearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
