package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

// TicketRepository interface for ticket tier, hold and ticket data
// operations
type TicketRepository interface {
	CreateTier(req *models.TicketTierCreateRequest) (*models.TicketTier, error)
	GetTierByID(id int) (*models.TicketTier, error)
	GetTiersByEvent(eventID int) ([]*models.TicketTier, error)
	UpdateTier(id int, req *models.TicketTierUpdateRequest) (*models.TicketTier, error)
	DeleteTier(id int) error
	CreateHold(tierID, userID, quantity int, ttl time.Duration) (*models.TicketHold, error)
	GetHoldByID(id string) (*models.TicketHold, error)
	ReleaseHold(holdID string) error
	ExpireHold(holdID string) error
	ConvertHoldToSale(holdID string, details repositories.SaleDetails) (*models.Order, []*models.Ticket, error)
	ListExpiredActiveHolds(limit int) ([]string, error)
	SyncTierInventoryCounters(tierID int) (*models.TicketTier, error)
	GetTicketsByOrder(orderID int) ([]*models.Ticket, error)
	GetTicketByCode(code string) (*models.Ticket, error)
	MarkTicketScanned(id int) error
}

// TicketService handles ticket tier and hold business logic
type TicketService struct {
	ticketRepo TicketRepository
	activity   *ActivityService
	cache      *cache.Store
	holdTTL    time.Duration
	maxPerHold int
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository, activity *ActivityService, store *cache.Store, holdTTL time.Duration, maxPerHold int) *TicketService {
	if holdTTL <= 0 {
		holdTTL = 15 * time.Minute
	}
	if maxPerHold <= 0 {
		maxPerHold = 10
	}

	return &TicketService{
		ticketRepo: ticketRepo,
		activity:   activity,
		cache:      store,
		holdTTL:    holdTTL,
		maxPerHold: maxPerHold,
	}
}

// CreateTier creates a new ticket tier for an event
func (s *TicketService) CreateTier(req *models.TicketTierCreateRequest) (*models.TicketTier, error) {
	tier, err := s.ticketRepo.CreateTier(req)
	if err != nil {
		return nil, err
	}

	s.invalidateTierCache(tier.EventID)
	return tier, nil
}

// GetTier retrieves a ticket tier by ID
func (s *TicketService) GetTier(id int) (*models.TicketTier, error) {
	return s.ticketRepo.GetTierByID(id)
}

// GetEventTiers retrieves the tiers for an event, cached briefly since
// tier listings are the hottest read on an event page.
func (s *TicketService) GetEventTiers(eventID int) ([]*models.TicketTier, error) {
	key := cache.EventTiersKey(eventID)
	if cached, ok := s.cacheGet(key); ok {
		if tiers, ok := cached.([]*models.TicketTier); ok {
			return tiers, nil
		}
	}

	tiers, err := s.ticketRepo.GetTiersByEvent(eventID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(key, tiers, 30*time.Second)
	return tiers, nil
}

// UpdateTier updates a tier's mutable fields
func (s *TicketService) UpdateTier(id int, req *models.TicketTierUpdateRequest) (*models.TicketTier, error) {
	tier, err := s.ticketRepo.UpdateTier(id, req)
	if err != nil {
		return nil, err
	}

	s.invalidateTierCache(tier.EventID)
	return tier, nil
}

// DeleteTier deletes a tier with no sold tickets
func (s *TicketService) DeleteTier(id int) error {
	tier, err := s.ticketRepo.GetTierByID(id)
	if err != nil {
		return err
	}

	if tier.Sold > 0 {
		return fmt.Errorf("cannot delete a tier with sold tickets")
	}

	if err := s.ticketRepo.DeleteTier(id); err != nil {
		return err
	}

	s.invalidateTierCache(tier.EventID)
	return nil
}

// HoldTickets reserves inventory for a user for a limited time
func (s *TicketService) HoldTickets(tierID, userID, quantity int) (*models.TicketHold, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than 0")
	}

	if quantity > s.maxPerHold {
		return nil, fmt.Errorf("cannot hold more than %d tickets at once", s.maxPerHold)
	}

	hold, err := s.ticketRepo.CreateHold(tierID, userID, quantity, s.holdTTL)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&userID, "hold.create", "ticket_hold", 0, nil)
	}

	s.invalidateTierCacheByTier(tierID)
	return hold, nil
}

// GetHold retrieves a hold, restricted to its owner or staff
func (s *TicketService) GetHold(holdID string, requester *models.User) (*models.TicketHold, error) {
	hold, err := s.ticketRepo.GetHoldByID(holdID)
	if err != nil {
		return nil, err
	}

	if requester == nil || (hold.UserID != requester.ID && !requester.IsStaff()) {
		return nil, models.ErrUnauthorized
	}

	return hold, nil
}

// ReleaseHold releases a user's active hold, returning its inventory
func (s *TicketService) ReleaseHold(holdID string, requester *models.User) error {
	hold, err := s.ticketRepo.GetHoldByID(holdID)
	if err != nil {
		return err
	}

	if requester == nil || (hold.UserID != requester.ID && !requester.IsStaff()) {
		return models.ErrUnauthorized
	}

	if err := s.ticketRepo.ReleaseHold(holdID); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&requester.ID, "hold.release", "ticket_hold", 0, nil)
	}

	s.invalidateTierCacheByTier(hold.TierID)
	return nil
}

// SyncInventory reconciles a tier's counters against holds and tickets
func (s *TicketService) SyncInventory(tierID int) (*models.TicketTier, error) {
	tier, err := s.ticketRepo.SyncTierInventoryCounters(tierID)
	if err != nil {
		return nil, err
	}

	s.invalidateTierCache(tier.EventID)
	return tier, nil
}

// ScanTicket marks a ticket as scanned at the door
func (s *TicketService) ScanTicket(code string) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetTicketByCode(code)
	if err != nil {
		return nil, err
	}

	if ticket.Status != models.TicketIssued {
		return nil, fmt.Errorf("ticket is %s and cannot be scanned", ticket.Status)
	}

	if err := s.ticketRepo.MarkTicketScanned(ticket.ID); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetTicketByCode(code)
}

// ExpireLapsedHolds releases every active hold whose expiry has passed
// and returns how many were expired. Holds that were concurrently
// converted or released are skipped.
func (s *TicketService) ExpireLapsedHolds(batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	ids, err := s.ticketRepo.ListExpiredActiveHolds(batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		err := s.ticketRepo.ExpireHold(id)
		if err == models.ErrHoldNotActive || err == models.ErrHoldNotFound {
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("failed to expire hold %s: %w", id, err)
		}
		expired++
	}

	return expired, nil
}

// RunHoldSweeper periodically expires lapsed holds until the context is
// cancelled. Intended to run in its own goroutine.
func (s *TicketService) RunHoldSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := s.ExpireLapsedHolds(100)
			if err != nil {
				log.Printf("hold sweeper error: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("hold sweeper expired %d lapsed holds", expired)
			}
		}
	}
}

func (s *TicketService) cacheGet(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *TicketService) cacheSet(key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	s.cache.Set(key, value, ttl)
}

func (s *TicketService) invalidateTierCache(eventID int) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(cache.EventTiersKey(eventID))
}

func (s *TicketService) invalidateTierCacheByTier(tierID int) {
	if s.cache == nil {
		return
	}
	tier, err := s.ticketRepo.GetTierByID(tierID)
	if err != nil {
		s.cache.Invalidate(cache.TiersKey())
		return
	}
	s.cache.Invalidate(cache.EventTiersKey(tier.EventID))
}
