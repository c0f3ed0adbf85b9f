package services

import (
	"time"

	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

// AnalyticsService assembles dashboard figures for platform staff and
// organization admins.
type AnalyticsService struct {
	eventRepo EventRepository
	orderRepo OrderRepository
	orgSvc    *OrganizationService
	activity  *ActivityService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(eventRepo EventRepository, orderRepo OrderRepository, orgSvc *OrganizationService, activity *ActivityService) *AnalyticsService {
	return &AnalyticsService{
		eventRepo: eventRepo,
		orderRepo: orderRepo,
		orgSvc:    orgSvc,
		activity:  activity,
	}
}

// AdminDashboard summarizes platform health for staff
type AdminDashboard struct {
	EventsByStatus map[models.EventStatus]int `json:"events_by_status"`
	PendingReview  int                        `json:"pending_review"`
	ErrorsLast24h  int                        `json:"errors_last_24h"`
	RecentActivity []*models.ActivityLog      `json:"recent_activity"`
}

// GetAdminDashboard builds the staff dashboard. Requires analytics
// permission.
func (s *AnalyticsService) GetAdminDashboard(user *models.User) (*AdminDashboard, error) {
	if user == nil || !user.HasPermission(models.PermissionViewAnalytics) || !user.IsStaff() {
		return nil, models.ErrUnauthorized
	}

	byStatus, err := s.eventRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	errors, err := s.activity.ErrorCountSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return nil, err
	}

	recent, err := s.activity.RecentActivity(repositories.ActivityLogFilters{Limit: 25})
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		EventsByStatus: byStatus,
		PendingReview:  byStatus[models.StatusPendingReview],
		ErrorsLast24h:  errors,
		RecentActivity: recent,
	}, nil
}

// EventDashboard summarizes one event's sales for its organizers
type EventDashboard struct {
	Event *models.Event                  `json:"event"`
	Sales *repositories.EventSalesSummary `json:"sales"`
}

// GetEventDashboard builds the sales dashboard for a single event. The
// caller must administer the event's organization.
func (s *AnalyticsService) GetEventDashboard(user *models.User, eventID int) (*EventDashboard, error) {
	event, err := s.eventRepo.GetByID(eventID)
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

	sales, err := s.orderRepo.GetEventSalesSummary(eventID)
	if err != nil {
		return nil, err
	}

	return &EventDashboard{Event: event, Sales: sales}, nil
}

// ErrorLog lists recent error entries for users allowed to see them
func (s *AnalyticsService) ErrorLog(user *models.User, since time.Time, limit int) ([]*models.ActivityLog, error) {
	if user == nil || !user.HasPermission(models.PermissionViewErrorLog) {
		return nil, models.ErrUnauthorized
	}

	return s.activity.RecentActivity(repositories.ActivityLogFilters{
		Level: models.ActivityError,
		Since: &since,
		Limit: limit,
	})
}
