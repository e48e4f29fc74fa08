package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/onenightdrink/api/internal/domain"
)

// Store mirrors the server-side state an app shell needs: the current
// session, bars, passes, and parties, with the admin datasets loaded once
// per authenticated session. All reads return copies under the lock.
type Store struct {
	client *Client

	mu sync.RWMutex

	currentUser *domain.User
	token       string

	bars          []domain.Bar
	activePasses  []domain.Pass
	hostedParties []domain.Party
	joinedParties []domain.Party

	adminLoaded     bool
	members         []domain.User
	allPasses       []domain.Pass
	paymentSettings *domain.PaymentSettings
}

func NewStore(client *Client) *Store {
	return &Store{
		client: client,
	}
}

// Login authenticates and reconciles the session state. Unlike the
// background refreshes, a login failure is returned to the caller.
func (s *Store) Login(ctx context.Context, email, password string) (domain.User, error) {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}

	s.client.SetToken(result.Token)

	s.mu.Lock()
	s.currentUser = &result.User
	s.token = result.Token
	s.adminLoaded = false
	s.mu.Unlock()

	s.Refresh(ctx)

	return result.User, nil
}

func (s *Store) Logout() {
	s.client.SetToken("")

	s.mu.Lock()
	s.currentUser = nil
	s.token = ""
	s.activePasses = nil
	s.hostedParties = nil
	s.joinedParties = nil
	s.adminLoaded = false
	s.members = nil
	s.allPasses = nil
	s.paymentSettings = nil
	s.mu.Unlock()
}

// Refresh reloads bars plus, when authenticated, passes and parties.
// Failures are logged and the previous state kept, the way the UI store
// treats background refreshes.
func (s *Store) Refresh(ctx context.Context) {
	bars, err := s.client.ListBars(ctx)
	if err != nil {
		zap.L().Warn("store: refresh bars failed", zap.Error(err))
	} else {
		s.mu.Lock()
		s.bars = bars
		s.mu.Unlock()
	}

	if !s.Authenticated() {
		return
	}

	if passes, err := s.client.ListActivePasses(ctx); err != nil {
		zap.L().Warn("store: refresh active passes failed", zap.Error(err))
	} else {
		s.mu.Lock()
		s.activePasses = passes
		s.mu.Unlock()
	}

	if hosted, err := s.client.ListHostedParties(ctx); err != nil {
		zap.L().Warn("store: refresh hosted parties failed", zap.Error(err))
	} else {
		s.mu.Lock()
		s.hostedParties = hosted
		s.mu.Unlock()
	}

	if joined, err := s.client.ListJoinedParties(ctx); err != nil {
		zap.L().Warn("store: refresh joined parties failed", zap.Error(err))
	} else {
		s.mu.Lock()
		s.joinedParties = joined
		s.mu.Unlock()
	}
}

// LoadAdminData fetches the back-office datasets once per session.
func (s *Store) LoadAdminData(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.adminLoaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	members, err := s.client.ListMembers(ctx)
	if err != nil {
		return err
	}
	passes, err := s.client.ListAllPasses(ctx)
	if err != nil {
		return err
	}
	settings, err := s.client.GetPaymentSettings(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.members = members
	s.allPasses = passes
	s.paymentSettings = &settings
	s.adminLoaded = true
	s.mu.Unlock()

	return nil
}

// PurchasePass buys a pass and folds it into the active list.
func (s *Store) PurchasePass(ctx context.Context, input PurchasePassInput) (domain.Pass, error) {
	pass, err := s.client.PurchasePass(ctx, input)
	if err != nil {
		return domain.Pass{}, err
	}

	s.mu.Lock()
	s.activePasses = append([]domain.Pass{pass}, s.activePasses...)
	if s.currentUser != nil {
		s.currentUser.TotalSpent += pass.TotalPrice
		s.currentUser.TotalVisits += pass.PersonCount
	}
	s.mu.Unlock()

	return pass, nil
}

func (s *Store) JoinParty(ctx context.Context, partyID string) (domain.Party, error) {
	party, err := s.client.JoinParty(ctx, partyID)
	if err != nil {
		return domain.Party{}, err
	}

	s.mu.Lock()
	s.joinedParties = upsertParty(s.joinedParties, party)
	s.mu.Unlock()

	return party, nil
}

func (s *Store) LeaveParty(ctx context.Context, partyID string) error {
	if err := s.client.LeaveParty(ctx, partyID); err != nil {
		return err
	}

	s.mu.Lock()
	s.joinedParties = removeParty(s.joinedParties, partyID)
	s.mu.Unlock()

	return nil
}

func (s *Store) CancelParty(ctx context.Context, partyID string) error {
	if err := s.client.CancelParty(ctx, partyID); err != nil {
		return err
	}

	s.mu.Lock()
	s.hostedParties = removeParty(s.hostedParties, partyID)
	s.mu.Unlock()

	return nil
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token != ""
}

func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser

	return &u
}

func (s *Store) Bars() []domain.Bar {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Bar(nil), s.bars...)
}

// ActivePasses drops entries that expired since the last refresh.
func (s *Store) ActivePasses() []domain.Pass {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	passes := make([]domain.Pass, 0, len(s.activePasses))
	for _, p := range s.activePasses {
		if p.Valid(now) {
			passes = append(passes, p)
		}
	}

	return passes
}

func (s *Store) HostedParties() []domain.Party {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Party(nil), s.hostedParties...)
}

func (s *Store) JoinedParties() []domain.Party {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Party(nil), s.joinedParties...)
}

func (s *Store) Members() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.User(nil), s.members...)
}

func upsertParty(parties []domain.Party, party domain.Party) []domain.Party {
	for i, p := range parties {
		if p.ID == party.ID {
			parties[i] = party

			return parties
		}
	}

	return append(parties, party)
}

func removeParty(parties []domain.Party, partyID string) []domain.Party {
	out := parties[:0]
	for _, p := range parties {
		if p.ID != partyID {
			out = append(out, p)
		}
	}

	return out
}
