package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

type mockActivityLogRepository struct {
	entries []*models.ActivityLog
	nextID  int
}

func newMockActivityLogRepository() *mockActivityLogRepository {
	return &mockActivityLogRepository{nextID: 1}
}

func (m *mockActivityLogRepository) Create(req *models.ActivityLogCreateRequest) (*models.ActivityLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	entry := &models.ActivityLog{
		ID:         m.nextID,
		UserID:     req.UserID,
		Level:      req.Level,
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Details:    req.Details,
		CreatedAt:  time.Now(),
	}
	m.entries = append(m.entries, entry)
	m.nextID++
	return entry, nil
}

func (m *mockActivityLogRepository) List(filters repositories.ActivityLogFilters) ([]*models.ActivityLog, error) {
	var out []*models.ActivityLog
	for _, entry := range m.entries {
		if filters.Level != "" && entry.Level != filters.Level {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *mockActivityLogRepository) CountErrorsSince(since time.Time) (int, error) {
	count := 0
	for _, entry := range m.entries {
		if entry.Level == models.ActivityError && !entry.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockActivityLogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []*models.ActivityLog
	var removed int64
	for _, entry := range m.entries {
		if entry.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	m.entries = kept
	return removed, nil
}

type recordingNotifier struct {
	notified []string
}

func (n *recordingNotifier) NotifyError(user *models.User, action string, details json.RawMessage) error {
	n.notified = append(n.notified, user.Email)
	return nil
}

func TestActivityService_LogActivity(t *testing.T) {
	logRepo := newMockActivityLogRepository()
	svc := NewActivityService(logRepo, newMockUserRepository(), nil)

	userID := 7
	svc.LogActivity(&userID, "event.create", "event", 3, nil)

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, models.ActivityInfo, logRepo.entries[0].Level)
	assert.Equal(t, "event.create", logRepo.entries[0].Action)
}

func TestActivityService_ErrorNotificationsGoToStaffOnly(t *testing.T) {
	logRepo := newMockActivityLogRepository()
	userRepo := newMockUserRepository()

	userRepo.Create(&models.UserCreateRequest{Email: "admin@example.com", Role: models.RoleAdmin, DisplayName: "Root"}, "hash")
	userRepo.Create(&models.UserCreateRequest{Email: "dev@example.com", Role: models.RoleDeveloper, DisplayName: "Dev"}, "hash")
	userRepo.Create(&models.UserCreateRequest{Email: "staff@example.com", Role: models.RoleFMStaff, DisplayName: "Staff"}, "hash")
	userRepo.Create(&models.UserCreateRequest{Email: "organizer@example.com", Role: models.RoleOrganizer, DisplayName: "Org"}, "hash")
	userRepo.Create(&models.UserCreateRequest{Email: "fan@example.com", Role: models.RoleUser, DisplayName: "Fan"}, "hash")

	notifier := &recordingNotifier{}
	svc := NewActivityService(logRepo, userRepo, notifier)

	svc.LogError(nil, "payment.failed", "order", 9, nil)

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, models.ActivityError, logRepo.entries[0].Level)

	// Organizers and regular users never receive error notifications
	assert.ElementsMatch(t, []string{"admin@example.com", "dev@example.com", "staff@example.com"}, notifier.notified)
}

func TestActivityService_ErrorNotificationsSkipInactiveStaff(t *testing.T) {
	logRepo := newMockActivityLogRepository()
	userRepo := newMockUserRepository()

	admin, _ := userRepo.Create(&models.UserCreateRequest{Email: "admin@example.com", Role: models.RoleAdmin, DisplayName: "Root"}, "hash")
	userRepo.Create(&models.UserCreateRequest{Email: "dev@example.com", Role: models.RoleDeveloper, DisplayName: "Dev"}, "hash")
	admin.IsActive = false

	notifier := &recordingNotifier{}
	svc := NewActivityService(logRepo, userRepo, notifier)

	svc.LogError(nil, "payment.failed", "order", 9, nil)

	assert.Equal(t, []string{"dev@example.com"}, notifier.notified)
}

func TestActivityService_ErrorCountSince(t *testing.T) {
	logRepo := newMockActivityLogRepository()
	svc := NewActivityService(logRepo, newMockUserRepository(), nil)

	svc.LogActivity(nil, "event.create", "event", 1, nil)
	svc.LogError(nil, "db.down", "system", 0, nil)
	svc.LogError(nil, "db.down", "system", 0, nil)

	count, err := svc.ErrorCountSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestActivityService_PruneLogs(t *testing.T) {
	logRepo := newMockActivityLogRepository()
	svc := NewActivityService(logRepo, newMockUserRepository(), nil)

	svc.LogActivity(nil, "event.create", "event", 1, nil)
	logRepo.entries[0].CreatedAt = time.Now().Add(-48 * time.Hour)
	svc.LogActivity(nil, "event.update", "event", 1, nil)

	removed, err := svc.PruneLogs(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Len(t, logRepo.entries, 1)

	_, err = svc.PruneLogs(0)
	assert.Error(t, err)
}
