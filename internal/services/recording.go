package services

import (
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
)

// RecordingRepository interface for recording data operations
type RecordingRepository interface {
	Create(req *models.RecordingCreateRequest) (*models.Recording, error)
	GetByID(id int) (*models.Recording, error)
	GetByEvent(eventID int) ([]*models.Recording, error)
	ListAll() ([]*models.Recording, error)
	Delete(id int) error
	AddRating(req *models.RatingCreateRequest) (*models.RecordingRating, error)
}

// RecordingService handles recording and rating business logic
type RecordingService struct {
	recordingRepo RecordingRepository
	activity      *ActivityService
	cache         *cache.Store
}

// NewRecordingService creates a new recording service
func NewRecordingService(recordingRepo RecordingRepository, activity *ActivityService, store *cache.Store) *RecordingService {
	return &RecordingService{
		recordingRepo: recordingRepo,
		activity:      activity,
		cache:         store,
	}
}

// PublishRecording publishes an event recording, staff only
func (s *RecordingService) PublishRecording(user *models.User, req *models.RecordingCreateRequest) (*models.Recording, error) {
	if user == nil || !user.IsStaff() {
		return nil, models.ErrUnauthorized
	}

	rec, err := s.recordingRepo.Create(req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "recording.publish", "recording", rec.ID, nil)
	}

	s.invalidate()
	return rec, nil
}

// GetRecording retrieves a recording with its ratings
func (s *RecordingService) GetRecording(id int) (*models.Recording, error) {
	return s.recordingRepo.GetByID(id)
}

// GetEventRecordings retrieves an event's recordings
func (s *RecordingService) GetEventRecordings(eventID int) ([]*models.Recording, error) {
	return s.recordingRepo.GetByEvent(eventID)
}

// DeleteRecording removes a recording, staff only
func (s *RecordingService) DeleteRecording(user *models.User, id int) error {
	if user == nil || !user.IsStaff() {
		return models.ErrUnauthorized
	}

	if err := s.recordingRepo.Delete(id); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "recording.delete", "recording", id, nil)
	}

	s.invalidate()
	return nil
}

// RateRecording records a user's rating. Rating the same recording again
// replaces the earlier score.
func (s *RecordingService) RateRecording(user *models.User, recordingID, score int, comment string) (*models.RecordingRating, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	if _, err := s.recordingRepo.GetByID(recordingID); err != nil {
		return nil, err
	}

	rating, err := s.recordingRepo.AddRating(&models.RatingCreateRequest{
		RecordingID: recordingID,
		UserID:      user.ID,
		Score:       score,
		Comment:     comment,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return rating, nil
}

// RecordingRatingSummary is the rating aggregate for a single recording
type RecordingRatingSummary struct {
	RecordingID  int      `json:"recording_id"`
	Title        string   `json:"title"`
	RatingCount  int      `json:"rating_count"`
	AverageScore *float64 `json:"average_score,omitempty"`
}

// RatingStats aggregates ratings across all recordings
type RatingStats struct {
	Recordings         []*RecordingRatingSummary `json:"recordings"`
	TotalRatings       int                       `json:"total_ratings"`
	OverallAverage     *float64                  `json:"overall_average,omitempty"`
	TopRatedID         *int                      `json:"top_rated_id,omitempty"`
	MostActiveReviewer *int                      `json:"most_active_reviewer,omitempty"`
}

// GetRatingStats aggregates rating statistics across every recording,
// cached briefly.
func (s *RecordingService) GetRatingStats() (*RatingStats, error) {
	key := cache.RecordingStatsKey()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if stats, ok := cached.(*RatingStats); ok {
				return stats, nil
			}
		}
	}

	recordings, err := s.recordingRepo.ListAll()
	if err != nil {
		return nil, err
	}

	stats := ComputeRatingStats(recordings)

	if s.cache != nil {
		s.cache.Set(key, stats, time.Minute)
	}

	return stats, nil
}

// ComputeRatingStats builds the rating aggregate. A recording with no
// ratings has no average rather than an average of zero, and never
// becomes the top rated recording. The most active reviewer is the user
// with the most ratings; on a tie the reviewer encountered first wins.
func ComputeRatingStats(recordings []*models.Recording) *RatingStats {
	stats := &RatingStats{}

	scoreSum := 0
	var bestAverage float64

	reviewerCounts := make(map[int]int)
	var reviewerOrder []int

	for _, rec := range recordings {
		summary := &RecordingRatingSummary{
			RecordingID: rec.ID,
			Title:       rec.Title,
			RatingCount: len(rec.Ratings),
		}

		if avg, ok := rec.AverageScore(); ok {
			summary.AverageScore = &avg

			if stats.TopRatedID == nil || avg > bestAverage {
				bestAverage = avg
				id := rec.ID
				stats.TopRatedID = &id
			}
		}

		for _, rating := range rec.Ratings {
			scoreSum += rating.Score
			stats.TotalRatings++

			if _, seen := reviewerCounts[rating.UserID]; !seen {
				reviewerOrder = append(reviewerOrder, rating.UserID)
			}
			reviewerCounts[rating.UserID]++
		}

		stats.Recordings = append(stats.Recordings, summary)
	}

	if stats.TotalRatings > 0 {
		overall := float64(scoreSum) / float64(stats.TotalRatings)
		stats.OverallAverage = &overall
	}

	best := 0
	for _, userID := range reviewerOrder {
		if reviewerCounts[userID] > best {
			best = reviewerCounts[userID]
			id := userID
			stats.MostActiveReviewer = &id
		}
	}

	return stats
}

func (s *RecordingService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.RecordingsKey())
	}
}
