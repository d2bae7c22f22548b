package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// ItineraryInput describes a new itinerary.
type ItineraryInput struct {
	Name        string
	Description string
	IsPublic    bool
	TotalDays   int
}

// ParticipationService manages itineraries and their participants. The
// creator of an itinerary is its owner, not a participant row.
type ParticipationService struct {
	users        *repository.UserRepo
	itineraries  *repository.ItineraryRepo
	participants *repository.ParticipantRepo
	now          func() time.Time
}

func NewParticipationService(users *repository.UserRepo, itineraries *repository.ItineraryRepo, participants *repository.ParticipantRepo) *ParticipationService {
	return &ParticipationService{users: users, itineraries: itineraries, participants: participants, now: time.Now}
}

// CreateItinerary stores a new itinerary owned by ownerID.
func (s *ParticipationService) CreateItinerary(ctx context.Context, ownerID string, in ItineraryInput) (model.Itinerary, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Itinerary{}, invalid("name is required")
	}
	if in.TotalDays == 0 {
		in.TotalDays = 1
	}
	if in.TotalDays < 1 {
		return model.Itinerary{}, invalid("totalDays must be positive")
	}
	if err := requireUser(ctx, s.users, ownerID, "user"); err != nil {
		return model.Itinerary{}, err
	}
	now := s.now().UTC()
	it := model.Itinerary{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		UserID:      ownerID,
		IsPublic:    in.IsPublic,
		TotalDays:   in.TotalDays,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.itineraries.Create(ctx, it); err != nil {
		return model.Itinerary{}, err
	}
	return it, nil
}

// ListItineraries returns the itineraries userID created or joined,
// newest first.
func (s *ParticipationService) ListItineraries(ctx context.Context, userID string) ([]model.Itinerary, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	return s.itineraries.ListForUser(ctx, userID)
}

// GetItinerary returns the itinerary or ErrNotFound.
func (s *ParticipationService) GetItinerary(ctx context.Context, id string) (model.Itinerary, error) {
	if id == "" {
		return model.Itinerary{}, invalid("itinerary id is required")
	}
	it, err := s.itineraries.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Itinerary{}, notFound("itinerary not found")
	}
	return it, err
}

// Invite adds userID to the itinerary on behalf of inviterID, who must be
// the creator or an existing participant.
func (s *ParticipationService) Invite(ctx context.Context, itineraryID, inviterID, userID string) (model.ItineraryParticipant, error) {
	if itineraryID == "" || userID == "" {
		return model.ItineraryParticipant{}, invalid("itineraryId and userId are required")
	}
	it, err := s.GetItinerary(ctx, itineraryID)
	if err != nil {
		return model.ItineraryParticipant{}, err
	}
	if inviterID != it.UserID {
		member, err := s.participants.Exists(ctx, itineraryID, inviterID)
		if err != nil {
			return model.ItineraryParticipant{}, err
		}
		if !member {
			return model.ItineraryParticipant{}, fmt.Errorf("%w: only members can invite to this itinerary", ErrForbidden)
		}
	}
	return s.add(ctx, it, userID, inviterID)
}

// Join adds userID to the itinerary on their own behalf.
func (s *ParticipationService) Join(ctx context.Context, itineraryID, userID string) (model.ItineraryParticipant, error) {
	if itineraryID == "" || userID == "" {
		return model.ItineraryParticipant{}, invalid("itineraryId is required")
	}
	it, err := s.GetItinerary(ctx, itineraryID)
	if err != nil {
		return model.ItineraryParticipant{}, err
	}
	return s.add(ctx, it, userID, "")
}

// add is the uniqueness-checked insert shared by Invite and Join.
func (s *ParticipationService) add(ctx context.Context, it model.Itinerary, userID, invitedBy string) (model.ItineraryParticipant, error) {
	if userID == it.UserID {
		return model.ItineraryParticipant{}, ErrAlreadyMember
	}
	if err := requireUser(ctx, s.users, userID, "user"); err != nil {
		return model.ItineraryParticipant{}, err
	}
	exists, err := s.participants.Exists(ctx, it.ID, userID)
	if err != nil {
		return model.ItineraryParticipant{}, err
	}
	if exists {
		return model.ItineraryParticipant{}, ErrAlreadyMember
	}
	p := model.ItineraryParticipant{
		ID:          uuid.NewString(),
		ItineraryID: it.ID,
		UserID:      userID,
		Role:        model.ParticipantRoleParticipant,
		InvitedBy:   invitedBy,
		JoinedAt:    s.now().UTC(),
	}
	if err := s.participants.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.ItineraryParticipant{}, ErrAlreadyMember
		}
		return model.ItineraryParticipant{}, err
	}
	return p, nil
}

// Leave removes userID from the itinerary. Leaving an itinerary the user
// does not belong to succeeds; removed reports whether a row was deleted.
func (s *ParticipationService) Leave(ctx context.Context, itineraryID, userID string) (removed bool, err error) {
	if itineraryID == "" || userID == "" {
		return false, invalid("itineraryId is required")
	}
	n, err := s.participants.Delete(ctx, itineraryID, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListParticipants returns the itinerary's participants, oldest first.
func (s *ParticipationService) ListParticipants(ctx context.Context, itineraryID string) ([]model.ItineraryParticipant, error) {
	if _, err := s.GetItinerary(ctx, itineraryID); err != nil {
		return nil, err
	}
	return s.participants.ListByItinerary(ctx, itineraryID)
}
