package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/models"
)

type mockRecordingRepository struct {
	recordings map[int]*models.Recording
	nextID     int
	nextRating int
}

func newMockRecordingRepository() *mockRecordingRepository {
	return &mockRecordingRepository{recordings: make(map[int]*models.Recording), nextID: 1, nextRating: 1}
}

func (m *mockRecordingRepository) Create(req *models.RecordingCreateRequest) (*models.Recording, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rec := &models.Recording{
		ID:      m.nextID,
		EventID: req.EventID,
		Title:   req.Title,
	}
	m.recordings[rec.ID] = rec
	m.nextID++
	return rec, nil
}

func (m *mockRecordingRepository) GetByID(id int) (*models.Recording, error) {
	rec, ok := m.recordings[id]
	if !ok {
		return nil, models.ErrRecordingNotFound
	}
	return rec, nil
}

func (m *mockRecordingRepository) GetByEvent(eventID int) ([]*models.Recording, error) {
	var recs []*models.Recording
	for _, rec := range m.recordings {
		if rec.EventID == eventID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (m *mockRecordingRepository) ListAll() ([]*models.Recording, error) {
	var recs []*models.Recording
	for i := 1; i < m.nextID; i++ {
		if rec, ok := m.recordings[i]; ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (m *mockRecordingRepository) Delete(id int) error {
	if _, ok := m.recordings[id]; !ok {
		return models.ErrRecordingNotFound
	}
	delete(m.recordings, id)
	return nil
}

func (m *mockRecordingRepository) AddRating(req *models.RatingCreateRequest) (*models.RecordingRating, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rec, ok := m.recordings[req.RecordingID]
	if !ok {
		return nil, models.ErrRecordingNotFound
	}
	for _, existing := range rec.Ratings {
		if existing.UserID == req.UserID {
			existing.Score = req.Score
			existing.Comment = req.Comment
			return existing, nil
		}
	}
	rating := &models.RecordingRating{
		ID:          m.nextRating,
		RecordingID: req.RecordingID,
		UserID:      req.UserID,
		Score:       req.Score,
		Comment:     req.Comment,
	}
	m.nextRating++
	rec.Ratings = append(rec.Ratings, rating)
	return rating, nil
}

func ratedRecording(id int, title string, scores ...int) *models.Recording {
	rec := &models.Recording{ID: id, Title: title}
	for i, score := range scores {
		rec.Ratings = append(rec.Ratings, &models.RecordingRating{
			RecordingID: id,
			UserID:      100*id + i,
			Score:       score,
		})
	}
	return rec
}

func TestComputeRatingStats(t *testing.T) {
	recordings := []*models.Recording{
		ratedRecording(1, "Opening Night", 4, 5, 3),
		ratedRecording(2, "Unrated Set"),
		ratedRecording(3, "Encore", 5, 5),
	}

	stats := ComputeRatingStats(recordings)

	require.Len(t, stats.Recordings, 3)
	assert.Equal(t, 5, stats.TotalRatings)

	// Per recording averages; the unrated recording has none
	require.NotNil(t, stats.Recordings[0].AverageScore)
	assert.InDelta(t, 4.0, *stats.Recordings[0].AverageScore, 0.001)
	assert.Nil(t, stats.Recordings[1].AverageScore)
	require.NotNil(t, stats.Recordings[2].AverageScore)
	assert.InDelta(t, 5.0, *stats.Recordings[2].AverageScore, 0.001)

	require.NotNil(t, stats.OverallAverage)
	assert.InDelta(t, 4.4, *stats.OverallAverage, 0.001)

	// The unrated recording can never win top rated
	require.NotNil(t, stats.TopRatedID)
	assert.Equal(t, 3, *stats.TopRatedID)
}

func TestComputeRatingStats_Empty(t *testing.T) {
	stats := ComputeRatingStats(nil)

	assert.Empty(t, stats.Recordings)
	assert.Equal(t, 0, stats.TotalRatings)
	assert.Nil(t, stats.OverallAverage)
	assert.Nil(t, stats.TopRatedID)
	assert.Nil(t, stats.MostActiveReviewer)
}

func TestComputeRatingStats_AllUnrated(t *testing.T) {
	stats := ComputeRatingStats([]*models.Recording{
		ratedRecording(1, "First"),
		ratedRecording(2, "Second"),
	})

	assert.Nil(t, stats.OverallAverage)
	assert.Nil(t, stats.TopRatedID)
	for _, rec := range stats.Recordings {
		assert.Nil(t, rec.AverageScore)
	}
}

func TestComputeRatingStats_MostActiveReviewer(t *testing.T) {
	alice, bob := 11, 22

	recordings := []*models.Recording{
		{ID: 1, Title: "First", Ratings: []*models.RecordingRating{
			{UserID: alice, Score: 4},
			{UserID: bob, Score: 5},
		}},
		{ID: 2, Title: "Second", Ratings: []*models.RecordingRating{
			{UserID: alice, Score: 3},
			{UserID: bob, Score: 4},
		}},
	}

	stats := ComputeRatingStats(recordings)

	// Tied counts resolve to the reviewer encountered first
	require.NotNil(t, stats.MostActiveReviewer)
	assert.Equal(t, alice, *stats.MostActiveReviewer)

	recordings[1].Ratings = append(recordings[1].Ratings, &models.RecordingRating{UserID: bob, Score: 2})
	stats = ComputeRatingStats(recordings)
	assert.Equal(t, bob, *stats.MostActiveReviewer)
}

func TestRecordingService_RateRecording(t *testing.T) {
	repo := newMockRecordingRepository()
	rec, err := repo.Create(&models.RecordingCreateRequest{EventID: 1, Title: "Live Set"})
	require.NoError(t, err)

	svc := NewRecordingService(repo, nil, nil)
	user := &models.User{ID: 7, Role: models.RoleUser}

	_, err = svc.RateRecording(user, rec.ID, 4, "great mix")
	require.NoError(t, err)

	_, err = svc.RateRecording(user, rec.ID, 6, "")
	assert.Error(t, err)

	// Rating again replaces the previous score instead of adding one
	_, err = svc.RateRecording(user, rec.ID, 5, "rewatched it")
	require.NoError(t, err)

	stored, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	require.Len(t, stored.Ratings, 1)
	assert.Equal(t, 5, stored.Ratings[0].Score)
}

func TestRecordingService_PublishRequiresStaff(t *testing.T) {
	svc := NewRecordingService(newMockRecordingRepository(), nil, nil)

	fan := &models.User{ID: 7, Role: models.RoleUser}
	_, err := svc.PublishRecording(fan, &models.RecordingCreateRequest{EventID: 1, Title: "Bootleg"})
	assert.Equal(t, models.ErrUnauthorized, err)

	staff := &models.User{ID: 8, Role: models.RoleFMStaff}
	rec, err := svc.PublishRecording(staff, &models.RecordingCreateRequest{EventID: 1, Title: "Official Cut"})
	require.NoError(t, err)
	assert.Equal(t, "Official Cut", rec.Title)
}
