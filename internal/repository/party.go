package repository

import (
	"context"
	"fmt"

	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/repository/dao"
)

var (
	ErrPartyNotFound = dao.ErrPartyNotFound
	ErrPartyNotOpen  = dao.ErrPartyNotOpen
	ErrPartyFull     = dao.ErrPartyFull
)

type PartyDAO interface {
	Insert(ctx context.Context, party dao.Party) (dao.Party, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Party, error)
	FindByHostID(ctx context.Context, hostID string) ([]dao.Party, error)
	FindByMemberID(ctx context.Context, userID string) ([]dao.Party, error)
	FindByID(ctx context.Context, id string) (dao.Party, error)
	FindOpenIDs(ctx context.Context, limit int) ([]string, error)
	FindMembers(ctx context.Context, partyIDs []string) ([]dao.PartyMember, error)
	AddMember(ctx context.Context, partyID string, member dao.PartyMember) (bool, error)
	RemoveMember(ctx context.Context, partyID, userID string) error
	Cancel(ctx context.Context, partyID, hostID string) error
}

type PartyRepository struct {
	dao PartyDAO
}

func NewPartyRepository(dao PartyDAO) *PartyRepository {
	return &PartyRepository{
		dao: dao,
	}
}

func (r *PartyRepository) Create(ctx context.Context, party domain.Party) (domain.Party, error) {
	created, err := r.dao.Insert(ctx, partyDomainToDAO(party))
	if err != nil {
		return domain.Party{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return partyDAOToDomain(created, nil), nil
}

// FindByStatus lists parties in one state, members attached.
func (r *PartyRepository) FindByStatus(ctx context.Context, status domain.PartyStatus) ([]domain.Party, error) {
	found, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	return r.attachMembers(ctx, found)
}

func (r *PartyRepository) FindByHostID(ctx context.Context, hostID string) ([]domain.Party, error) {
	found, err := r.dao.FindByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByHostID -> %w", err)
	}

	return r.attachMembers(ctx, found)
}

func (r *PartyRepository) FindByMemberID(ctx context.Context, userID string) ([]domain.Party, error) {
	found, err := r.dao.FindByMemberID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByMemberID -> %w", err)
	}

	return r.attachMembers(ctx, found)
}

func (r *PartyRepository) FindByID(ctx context.Context, id string) (domain.Party, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Party{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	members, err := r.dao.FindMembers(ctx, []string{found.ID})
	if err != nil {
		return domain.Party{}, fmt.Errorf("r.dao.FindMembers -> %w", err)
	}

	return partyDAOToDomain(found, members), nil
}

func (r *PartyRepository) FindOpenIDs(ctx context.Context, limit int) ([]string, error) {
	ids, err := r.dao.FindOpenIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOpenIDs -> %w", err)
	}

	return ids, nil
}

func (r *PartyRepository) AddMember(ctx context.Context, partyID string, member domain.PartyMember) (bool, error) {
	becameFull, err := r.dao.AddMember(ctx, partyID, dao.PartyMember{
		UserID:      member.UserID,
		Name:        member.Name,
		DisplayName: member.DisplayName,
		Avatar:      member.Avatar,
		Gender:      member.Gender,
		JoinedAt:    member.JoinedAt,
	})
	if err != nil {
		return false, fmt.Errorf("r.dao.AddMember -> %w", err)
	}

	return becameFull, nil
}

func (r *PartyRepository) RemoveMember(ctx context.Context, partyID, userID string) error {
	if err := r.dao.RemoveMember(ctx, partyID, userID); err != nil {
		return fmt.Errorf("r.dao.RemoveMember -> %w", err)
	}

	return nil
}

func (r *PartyRepository) Cancel(ctx context.Context, partyID, hostID string) error {
	if err := r.dao.Cancel(ctx, partyID, hostID); err != nil {
		return fmt.Errorf("r.dao.Cancel -> %w", err)
	}

	return nil
}

// attachMembers loads the guest lists for a batch of parties in one query.
func (r *PartyRepository) attachMembers(ctx context.Context, parties []dao.Party) ([]domain.Party, error) {
	ids := make([]string, 0, len(parties))
	for _, p := range parties {
		ids = append(ids, p.ID)
	}

	members, err := r.dao.FindMembers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMembers -> %w", err)
	}

	byParty := make(map[string][]dao.PartyMember, len(parties))
	for _, m := range members {
		byParty[m.PartyID] = append(byParty[m.PartyID], m)
	}

	out := make([]domain.Party, 0, len(parties))
	for _, p := range parties {
		out = append(out, partyDAOToDomain(p, byParty[p.ID]))
	}

	return out, nil
}

func partyDAOToDomain(p dao.Party, members []dao.PartyMember) domain.Party {
	guests := make([]domain.PartyMember, 0, len(members))
	for _, m := range members {
		guests = append(guests, domain.PartyMember{
			UserID:      m.UserID,
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Avatar:      m.Avatar,
			Gender:      m.Gender,
			JoinedAt:    m.JoinedAt,
		})
	}

	return domain.Party{
		ID:              p.ID,
		HostID:          p.HostID,
		HostName:        p.HostName,
		HostDisplayName: p.HostDisplayName,
		HostAvatar:      p.HostAvatar,
		PassID:          p.PassID,
		BarID:           p.BarID,
		BarName:         p.BarName,
		Title:           p.Title,
		Description:     p.Description,
		MaxFemaleGuests: p.MaxFemaleGuests,
		PartyTime:       p.PartyTime,
		Status:          domain.PartyStatus(p.Status),
		CurrentGuests:   guests,
		CreatedAt:       p.CreatedAt,
	}
}

func partyDomainToDAO(p domain.Party) dao.Party {
	return dao.Party{
		ID:              p.ID,
		HostID:          p.HostID,
		HostName:        p.HostName,
		HostDisplayName: p.HostDisplayName,
		HostAvatar:      p.HostAvatar,
		PassID:          p.PassID,
		BarID:           p.BarID,
		BarName:         p.BarName,
		Title:           p.Title,
		Description:     p.Description,
		MaxFemaleGuests: p.MaxFemaleGuests,
		PartyTime:       p.PartyTime,
		Status:          string(p.Status),
	}
}
