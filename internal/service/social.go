package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// FriendPolicy selects which pre-existing relationships block a new
// friend request.
type FriendPolicy string

const (
	// PolicyLenient only blocks a second pending request in the same
	// direction.
	PolicyLenient FriendPolicy = "lenient"
	// PolicyStrict also blocks when the pair are already friends or the
	// reverse direction has a pending request.
	PolicyStrict FriendPolicy = "strict"
)

// ParseFriendPolicy accepts "lenient", "strict" or "" (lenient).
func ParseFriendPolicy(s string) (FriendPolicy, error) {
	switch FriendPolicy(s) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown friend request policy %q", s)
}

// FriendAction is the resolution requested for a pending friend request.
type FriendAction string

const (
	ActionAccept FriendAction = "accept"
	ActionReject FriendAction = "reject"
)

// SocialService manages friend requests and the friendship graph.
type SocialService struct {
	users   *repository.UserRepo
	friends *repository.FriendRepo
	policy  FriendPolicy
	now     func() time.Time
}

func NewSocialService(users *repository.UserRepo, friends *repository.FriendRepo, policy FriendPolicy) *SocialService {
	if policy == "" {
		policy = PolicyLenient
	}
	return &SocialService{users: users, friends: friends, policy: policy, now: time.Now}
}

// SendFriendRequest creates a pending request from -> to.
func (s *SocialService) SendFriendRequest(ctx context.Context, fromUserID, toUserID string) (model.FriendRequest, error) {
	if fromUserID == "" || toUserID == "" {
		return model.FriendRequest{}, invalid("toUserId is required")
	}
	if fromUserID == toUserID {
		return model.FriendRequest{}, ErrSelfRequest
	}
	if err := requireUser(ctx, s.users, fromUserID, "sender"); err != nil {
		return model.FriendRequest{}, err
	}
	if err := requireUser(ctx, s.users, toUserID, "recipient"); err != nil {
		return model.FriendRequest{}, err
	}

	pending, err := s.friends.HasPending(ctx, fromUserID, toUserID)
	if err != nil {
		return model.FriendRequest{}, err
	}
	if pending {
		return model.FriendRequest{}, ErrDuplicateRequest
	}
	if s.policy == PolicyStrict {
		friends, err := s.friends.AreFriends(ctx, fromUserID, toUserID)
		if err != nil {
			return model.FriendRequest{}, err
		}
		if friends {
			return model.FriendRequest{}, ErrAlreadyFriends
		}
		reverse, err := s.friends.HasPending(ctx, toUserID, fromUserID)
		if err != nil {
			return model.FriendRequest{}, err
		}
		if reverse {
			return model.FriendRequest{}, ErrReverseRequestPending
		}
	}

	now := s.now().UTC()
	req := model.FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     model.FriendRequestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.friends.CreateRequest(ctx, req); err != nil {
		// The pending_key index caught a concurrent send that passed the
		// read check above.
		if errors.Is(err, repository.ErrConflict) {
			return model.FriendRequest{}, ErrDuplicateRequest
		}
		return model.FriendRequest{}, err
	}
	return req, nil
}

// ResolveFriendRequest dispatches to Accept or Reject.
func (s *SocialService) ResolveFriendRequest(ctx context.Context, requestID, actorID string, action FriendAction) error {
	switch action {
	case ActionAccept:
		return s.AcceptFriendRequest(ctx, requestID, actorID)
	case ActionReject:
		return s.RejectFriendRequest(ctx, requestID, actorID)
	}
	return invalid("action must be accept or reject")
}

// AcceptFriendRequest marks the request accepted and inserts both
// friendship edges in one transaction. actorID, when set, must be the
// recipient.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, requestID, actorID string) error {
	return s.resolve(ctx, requestID, actorID, model.FriendRequestAccepted)
}

// RejectFriendRequest marks the request rejected. No edges are created.
func (s *SocialService) RejectFriendRequest(ctx context.Context, requestID, actorID string) error {
	return s.resolve(ctx, requestID, actorID, model.FriendRequestRejected)
}

func (s *SocialService) resolve(ctx context.Context, requestID, actorID, status string) error {
	if requestID == "" {
		return invalid("requestId is required")
	}
	req, err := s.friends.GetRequest(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("friend request not found")
	}
	if err != nil {
		return err
	}
	if actorID != "" && actorID != req.ToUserID {
		return fmt.Errorf("%w: only the recipient can respond to a friend request", ErrForbidden)
	}
	if req.Status != model.FriendRequestPending {
		return ErrRequestNotPending
	}

	now := s.now().UTC()
	tx, err := s.friends.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ok, err := s.friends.ResolveTx(ctx, tx, requestID, status, now)
	if err != nil {
		return err
	}
	if !ok {
		// Resolved concurrently since the read above.
		return ErrRequestNotPending
	}
	if status == model.FriendRequestAccepted {
		for _, pair := range [2][2]string{{req.FromUserID, req.ToUserID}, {req.ToUserID, req.FromUserID}} {
			err := s.friends.CreateFriendshipTx(ctx, tx, model.Friendship{
				ID:        uuid.NewString(),
				UserID:    pair[0],
				FriendID:  pair[1],
				CreatedAt: now,
			})
			// An edge may already exist when both users requested each
			// other and both requests were accepted.
			if err != nil && !errors.Is(err, repository.ErrConflict) {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListFriendRequests returns every request the user sent or received.
func (s *SocialService) ListFriendRequests(ctx context.Context, userID string) ([]model.FriendRequest, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	return s.friends.ListRequests(ctx, userID)
}

// ListFriends returns the friendship edges owned by userID.
func (s *SocialService) ListFriends(ctx context.Context, userID string) ([]model.Friendship, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	return s.friends.ListFriends(ctx, userID)
}
