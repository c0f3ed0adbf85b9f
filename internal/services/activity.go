package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

// ActivityLogRepository interface for activity log data operations
type ActivityLogRepository interface {
	Create(req *models.ActivityLogCreateRequest) (*models.ActivityLog, error)
	List(filters repositories.ActivityLogFilters) ([]*models.ActivityLog, error)
	CountErrorsSince(since time.Time) (int, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// Notifier delivers error notifications to platform staff
type Notifier interface {
	NotifyError(user *models.User, action string, details json.RawMessage) error
}

// ActivityService records activity and error log entries. Error entries
// additionally fan out notifications to staff users; regular users never
// receive error notifications.
type ActivityService struct {
	logRepo  ActivityLogRepository
	userRepo UserRepository
	notifier Notifier
}

// NewActivityService creates a new activity service
func NewActivityService(logRepo ActivityLogRepository, userRepo UserRepository, notifier Notifier) *ActivityService {
	return &ActivityService{
		logRepo:  logRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// LogActivity records an info level activity entry. Logging is best
// effort: failures are logged locally but never fail the calling
// operation.
func (s *ActivityService) LogActivity(userID *int, action, targetType string, targetID int, details json.RawMessage) {
	_, err := s.logRepo.Create(&models.ActivityLogCreateRequest{
		UserID:     userID,
		Level:      models.ActivityInfo,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	})
	if err != nil {
		log.Printf("activity log write failed for action %s: %v", action, err)
	}
}

// LogError records an error level entry and notifies staff users. Only
// users with a staff role (admin, developer, platform staff) are
// notified.
func (s *ActivityService) LogError(userID *int, action, targetType string, targetID int, details json.RawMessage) {
	_, err := s.logRepo.Create(&models.ActivityLogCreateRequest{
		UserID:     userID,
		Level:      models.ActivityError,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	})
	if err != nil {
		log.Printf("error log write failed for action %s: %v", action, err)
	}

	s.notifyStaff(action, details)
}

// notifyStaff sends an error notification to every active staff user
func (s *ActivityService) notifyStaff(action string, details json.RawMessage) {
	if s.notifier == nil {
		return
	}

	staff, err := s.userRepo.ListStaff()
	if err != nil {
		log.Printf("failed to list staff for error notification: %v", err)
		return
	}

	for _, user := range staff {
		if !user.IsStaff() {
			continue
		}
		if err := s.notifier.NotifyError(user, action, details); err != nil {
			log.Printf("error notification to %s failed: %v", user.Email, err)
		}
	}
}

// RecentActivity retrieves recent activity entries for admin review
func (s *ActivityService) RecentActivity(filters repositories.ActivityLogFilters) ([]*models.ActivityLog, error) {
	return s.logRepo.List(filters)
}

// ErrorCountSince returns the number of errors recorded in the window
func (s *ActivityService) ErrorCountSince(since time.Time) (int, error) {
	return s.logRepo.CountErrorsSince(since)
}

// PruneLogs removes log entries older than the retention period
func (s *ActivityService) PruneLogs(retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive")
	}
	return s.logRepo.DeleteOlderThan(time.Now().Add(-retention))
}

// LogNotifier writes error notifications to the process log. Used when no
// external notification channel is configured.
type LogNotifier struct{}

// NotifyError implements Notifier
func (LogNotifier) NotifyError(user *models.User, action string, details json.RawMessage) error {
	log.Printf("error notification for %s: action=%s details=%s", user.Email, action, string(details))
	return nil
}
