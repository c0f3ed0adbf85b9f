package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/cache"
	"stagepass/internal/models"
)

type mockArtistRepository struct {
	artists map[int]*models.Artist
	nextID  int
}

func newMockArtistRepository() *mockArtistRepository {
	return &mockArtistRepository{artists: make(map[int]*models.Artist), nextID: 1}
}

func (m *mockArtistRepository) addArtist(name string) *models.Artist {
	artist := &models.Artist{ID: m.nextID, Name: name}
	m.artists[artist.ID] = artist
	m.nextID++
	return artist
}

func (m *mockArtistRepository) Create(req *models.ArtistCreateRequest) (*models.Artist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.addArtist(req.Name), nil
}

func (m *mockArtistRepository) GetByID(id int) (*models.Artist, error) {
	artist, ok := m.artists[id]
	if !ok {
		return nil, models.ErrArtistNotFound
	}
	return artist, nil
}

func (m *mockArtistRepository) Update(id int, req *models.ArtistUpdateRequest) (*models.Artist, error) {
	artist, ok := m.artists[id]
	if !ok {
		return nil, models.ErrArtistNotFound
	}
	artist.Name = req.Name
	return artist, nil
}

func (m *mockArtistRepository) Delete(id int) error {
	if _, ok := m.artists[id]; !ok {
		return models.ErrArtistNotFound
	}
	delete(m.artists, id)
	return nil
}

func (m *mockArtistRepository) List(limit, offset int) ([]*models.Artist, int, error) {
	var artists []*models.Artist
	for i := 1; i < m.nextID; i++ {
		if artist, ok := m.artists[i]; ok {
			artists = append(artists, artist)
		}
	}
	return artists, len(artists), nil
}

func (m *mockArtistRepository) SearchFuzzy(query string, limit int) ([]*models.Artist, error) {
	var matches []*models.Artist
	for i := 1; i < m.nextID; i++ {
		artist, ok := m.artists[i]
		if ok && strings.Contains(strings.ToLower(artist.Name), strings.ToLower(query)) {
			matches = append(matches, artist)
		}
	}
	return matches, nil
}

func TestMergeEventLists(t *testing.T) {
	a := &models.Event{ID: 1, Title: "A"}
	b := &models.Event{ID: 2, Title: "B"}
	c := &models.Event{ID: 3, Title: "C"}

	merged := MergeEventLists([]*models.Event{a, b}, []*models.Event{b, c, a})

	require.Len(t, merged, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{merged[0].ID, merged[1].ID, merged[2].ID})
}

func TestMergeEventLists_Empty(t *testing.T) {
	assert.Empty(t, MergeEventLists(nil, nil))
	assert.Len(t, MergeEventLists([]*models.Event{{ID: 1}}, nil), 1)
}

func TestArtistService_GetArtistEvents_Dedup(t *testing.T) {
	artistRepo := newMockArtistRepository()
	artist := artistRepo.addArtist("Nightdrive")

	eventRepo := newMockEventRepository()
	start := time.Now().Add(24 * time.Hour)

	// The artist headlines event 1 and also appears on its lineup,
	// and is on event 2's lineup only.
	headlined := eventRepo.addEvent(1, models.StatusPublished, start)
	headlined.HeadlinerID = &artist.ID
	headlined.Lineup = []*models.Artist{artist}

	support := eventRepo.addEvent(1, models.StatusPublished, start.Add(48*time.Hour))
	support.Lineup = []*models.Artist{artist}

	svc := NewArtistService(artistRepo, eventRepo, nil, nil)

	events, err := svc.GetArtistEvents(artist.ID)
	require.NoError(t, err)

	// The doubly linked event appears exactly once
	require.Len(t, events, 2)
	assert.Equal(t, headlined.ID, events[0].ID)
	assert.Equal(t, support.ID, events[1].ID)
}

func TestArtistService_GetArtistEvents_UnknownArtist(t *testing.T) {
	svc := NewArtistService(newMockArtistRepository(), newMockEventRepository(), nil, nil)

	_, err := svc.GetArtistEvents(42)
	assert.Equal(t, models.ErrArtistNotFound, err)
}

func TestArtistService_PermissionChecks(t *testing.T) {
	svc := NewArtistService(newMockArtistRepository(), newMockEventRepository(), nil, nil)

	fan := &models.User{ID: 7, Role: models.RoleUser}
	_, err := svc.CreateArtist(fan, &models.ArtistCreateRequest{Name: "Nightdrive"})
	assert.Equal(t, models.ErrUnauthorized, err)

	organizer := &models.User{ID: 8, Role: models.RoleOrganizer}
	_, err = svc.CreateArtist(organizer, &models.ArtistCreateRequest{Name: "Nightdrive"})
	assert.Equal(t, models.ErrUnauthorized, err)

	staff := &models.User{ID: 9, Role: models.RoleFMStaff}
	artist, err := svc.CreateArtist(staff, &models.ArtistCreateRequest{Name: "Nightdrive"})
	require.NoError(t, err)
	assert.Equal(t, "Nightdrive", artist.Name)
}

func TestSearchService_BlankQuery(t *testing.T) {
	svc := NewSearchService(newMockEventRepository(), newMockArtistRepository(), nil)

	events, err := svc.SearchEvents("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	artists, err := svc.SearchArtists("", 10)
	require.NoError(t, err)
	assert.Empty(t, artists)
}

func TestSearchService_CachesResults(t *testing.T) {
	artistRepo := newMockArtistRepository()
	artistRepo.addArtist("Nightdrive")

	store := cache.NewStore(time.Minute)
	svc := NewSearchService(newMockEventRepository(), artistRepo, store)

	first, err := svc.SearchArtists("night", 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A new artist does not appear until the cached entry expires
	artistRepo.addArtist("Nightmoves")

	second, err := svc.SearchArtists("night", 10)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
