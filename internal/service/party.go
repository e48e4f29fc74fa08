package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository"
)

var (
	ErrPartyNotFound = repository.ErrPartyNotFound
	ErrPartyNotOpen  = repository.ErrPartyNotOpen
	ErrPartyFull     = repository.ErrPartyFull
	ErrPassNotValid  = errors.New("pass is not valid for hosting")
)

type PartyRepository interface {
	Create(ctx context.Context, party domain.Party) (domain.Party, error)
	FindByStatus(ctx context.Context, status domain.PartyStatus) ([]domain.Party, error)
	FindByHostID(ctx context.Context, hostID string) ([]domain.Party, error)
	FindByMemberID(ctx context.Context, userID string) ([]domain.Party, error)
	FindByID(ctx context.Context, id string) (domain.Party, error)
	AddMember(ctx context.Context, partyID string, member domain.PartyMember) (bool, error)
	RemoveMember(ctx context.Context, partyID, userID string) error
	Cancel(ctx context.Context, partyID, hostID string) error
}

type PartyPassRepository interface {
	FindByID(ctx context.Context, id string) (domain.Pass, error)
}

type PartyUserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// CreatePartyInput is the host's request; host identity comes from the
// token, bar details come from the referenced pass.
type CreatePartyInput struct {
	HostID          string
	PassID          string
	Title           string
	Description     string
	MaxFemaleGuests int
	PartyTime       time.Time
}

type PartyService struct {
	repo     PartyRepository
	passRepo PartyPassRepository
	userRepo PartyUserRepository
}

func NewPartyService(repo PartyRepository, passRepo PartyPassRepository, userRepo PartyUserRepository) *PartyService {
	return &PartyService{
		repo:     repo,
		passRepo: passRepo,
		userRepo: userRepo,
	}
}

func (s *PartyService) ListParties(ctx context.Context, status domain.PartyStatus) ([]domain.Party, error) {
	parties, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return parties, nil
}

func (s *PartyService) ListHostedParties(ctx context.Context, hostID string) ([]domain.Party, error) {
	parties, err := s.repo.FindByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByHostID -> %w", err)
	}

	return parties, nil
}

func (s *PartyService) ListJoinedParties(ctx context.Context, userID string) ([]domain.Party, error) {
	parties, err := s.repo.FindByMemberID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByMemberID -> %w", err)
	}

	return parties, nil
}

func (s *PartyService) GetParty(ctx context.Context, id string) (domain.Party, error) {
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Party{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return party, nil
}

// CreateParty opens a party backed by a drink pass the host owns. The host's
// public profile is snapshotted onto the party row so renames later do not
// rewrite history.
func (s *PartyService) CreateParty(ctx context.Context, input CreatePartyInput) (domain.Party, error) {
	pass, err := s.passRepo.FindByID(ctx, input.PassID)
	if err != nil {
		if errors.Is(err, repository.ErrPassNotFound) {
			return domain.Party{}, ErrPassNotValid
		}

		return domain.Party{}, fmt.Errorf("s.passRepo.FindByID -> %w", err)
	}
	if pass.UserID != input.HostID || !pass.Valid(time.Now()) {
		return domain.Party{}, ErrPassNotValid
	}

	host, err := s.userRepo.FindByID(ctx, input.HostID)
	if err != nil {
		return domain.Party{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	party := domain.Party{
		ID:              newID("party"),
		HostID:          host.ID,
		HostName:        host.Name,
		HostDisplayName: host.DisplayName,
		HostAvatar:      host.Avatar,
		PassID:          pass.ID,
		BarID:           pass.BarID,
		BarName:         pass.BarName,
		Title:           input.Title,
		Description:     input.Description,
		MaxFemaleGuests: input.MaxFemaleGuests,
		PartyTime:       input.PartyTime,
		Status:          domain.PartyOpen,
	}

	created, err := s.repo.Create(ctx, party)
	if err != nil {
		return domain.Party{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// JoinParty adds the caller to an open party. The capacity check and the
// membership insert are serialized in the repository, so two concurrent
// joins for the last slot produce exactly one member. Re-joining is a
// harmless no-op.
func (s *PartyService) JoinParty(ctx context.Context, partyID, userID string) (domain.Party, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.Party{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	member := domain.PartyMember{
		UserID:      user.ID,
		Name:        user.Name,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
		Gender:      user.Gender,
		JoinedAt:    time.Now(),
	}

	if _, err := s.repo.AddMember(ctx, partyID, member); err != nil {
		return domain.Party{}, fmt.Errorf("s.repo.AddMember -> %w", err)
	}

	return s.GetParty(ctx, partyID)
}

func (s *PartyService) LeaveParty(ctx context.Context, partyID, userID string) error {
	if err := s.repo.RemoveMember(ctx, partyID, userID); err != nil {
		return fmt.Errorf("s.repo.RemoveMember -> %w", err)
	}

	return nil
}

// CancelParty cancels a party the caller hosts. Non-hosts get not-found
// rather than a hint the party exists.
func (s *PartyService) CancelParty(ctx context.Context, partyID, hostID string) error {
	if err := s.repo.Cancel(ctx, partyID, hostID); err != nil {
		return fmt.Errorf("s.repo.Cancel -> %w", err)
	}

	return nil
}
