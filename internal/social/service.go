package social

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "friendgraph/pkg/errors"
	"friendgraph/pkg/logger"
)

// Service implements the social-graph operations on top of an injected
// Store. It owns the friendship invariants and the score computation; the
// HTTP layer only maps its typed errors to status codes.
type Service struct {
	store Store
	log   *zap.Logger
}

// NewService creates a new social-graph service
func NewService(store Store) *Service {
	return &Service{
		store: store,
		log:   logger.Get(),
	}
}

// Ping verifies the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ScoreForUser computes the popularity score for a single user, fetching
// only what that one user needs: its own hobbies, its friend ID list and
// the hobby lists of exactly those friends. An unknown user scores 0.
func (s *Service) ScoreForUser(ctx context.Context, userID string) (float64, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return 0, nil
		}
		return 0, err
	}

	friendIDs, err := s.store.FriendIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	// Edge uniqueness makes the resolved friend IDs already distinct.
	if len(friendIDs) == 0 {
		return 0, nil
	}

	hobbyLists, err := s.store.HobbiesOf(ctx, friendIDs)
	if err != nil {
		return 0, err
	}

	return computeScore(len(friendIDs), user.Hobbies, hobbyLists), nil
}

// ListUsers returns every user in creation order, enriched with friends
// and popularity score.
func (s *Service) ListUsers(ctx context.Context) ([]EnrichedUser, error) {
	users, _, err := s.enrichedUsers(ctx)
	return users, err
}

// GraphData returns the combined read the visualization consumes: all
// enriched users plus all raw friendship pairs.
func (s *Service) GraphData(ctx context.Context) (*Graph, error) {
	users, friendships, err := s.enrichedUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &Graph{Users: users, Friendships: friendships}, nil
}

// enrichedUsers fetches users and friendships in parallel and scores every
// user with the batch scoring path.
func (s *Service) enrichedUsers(ctx context.Context) ([]EnrichedUser, []Friendship, error) {
	var (
		users       []User
		friendships []Friendship
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.store.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		friendships, err = s.store.ListFriendships(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	enriched := make([]EnrichedUser, 0, len(users))
	for _, user := range users {
		enriched = append(enriched, EnrichedUser{
			User:            user,
			Friends:         FriendIDs(user.ID, friendships),
			PopularityScore: PopularityScore(user, users, friendships),
		})
	}

	return enriched, friendships, nil
}

// CreateUser validates and stores a new user. Hobbies default to an empty
// list; a new user has no friends and score 0.
func (s *Service) CreateUser(ctx context.Context, username string, age int, hobbies []string) (*EnrichedUser, error) {
	if username == "" {
		return nil, apperrors.NewMissingField("username")
	}
	if age <= 0 {
		return nil, apperrors.NewMissingField("age")
	}

	user, err := s.store.CreateUser(ctx, username, age, hobbies)
	if err != nil {
		return nil, err
	}

	return &EnrichedUser{
		User:            *user,
		Friends:         []string{},
		PopularityScore: 0,
	}, nil
}

// UpdateUser applies a partial update: zero-valued fields keep their
// existing values. Returns the updated user with recomputed derived fields.
func (s *Service) UpdateUser(ctx context.Context, id, username string, age int, hobbies []string) (*EnrichedUser, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if username == "" {
		username = existing.Username
	}
	if age == 0 {
		age = existing.Age
	}
	if hobbies == nil {
		hobbies = existing.Hobbies
	}

	updated, err := s.store.UpdateUser(ctx, id, username, age, hobbies)
	if err != nil {
		return nil, err
	}

	return s.enrichUser(ctx, updated)
}

// DeleteUser removes a user. A user with one or more incident edges is not
// deletable; the caller must unlink all edges first.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	linked, err := s.store.HasAnyFriendship(ctx, id)
	if err != nil {
		return err
	}
	if linked {
		return apperrors.NewUserHasFriendships(id)
	}

	return s.store.DeleteUser(ctx, id)
}

// Link creates a friendship between two users and returns both endpoints
// with recomputed derived fields. The pair is canonicalized before the
// insert, so a reverse request for an existing pair is a duplicate.
func (s *Service) Link(ctx context.Context, idA, idB string) (*LinkResult, error) {
	if err := ValidateLink(idA, idB); err != nil {
		return nil, err
	}

	idA, err := parseID(idA)
	if err != nil {
		return nil, err
	}
	idB, err = parseID(idB)
	if err != nil {
		return nil, err
	}

	idLow, idHigh := CanonicalPair(idA, idB)
	if err := s.store.CreateFriendship(ctx, idLow, idHigh); err != nil {
		return nil, err
	}
	s.log.Info("Linked users", zap.String("id_low", idLow), zap.String("id_high", idHigh))

	return s.linkResult(ctx, idA, idB)
}

// Unlink removes a friendship, accepting the endpoints in either order,
// and returns both users with recomputed derived fields.
func (s *Service) Unlink(ctx context.Context, idA, idB string) (*LinkResult, error) {
	if err := ValidateLink(idA, idB); err != nil {
		return nil, err
	}

	idA, err := parseID(idA)
	if err != nil {
		return nil, err
	}
	idB, err = parseID(idB)
	if err != nil {
		return nil, err
	}

	idLow, idHigh := CanonicalPair(idA, idB)
	if err := s.store.DeleteFriendship(ctx, idLow, idHigh); err != nil {
		return nil, err
	}
	s.log.Info("Unlinked users", zap.String("id_low", idLow), zap.String("id_high", idHigh))

	return s.linkResult(ctx, idA, idB)
}

// linkResult fetches both endpoints enriched, in the request's original
// order, with the two fetches running in parallel.
func (s *Service) linkResult(ctx context.Context, idA, idB string) (*LinkResult, error) {
	var userA, userB *EnrichedUser

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userA, err = s.fetchEnriched(gctx, idA)
		return err
	})
	g.Go(func() error {
		var err error
		userB, err = s.fetchEnriched(gctx, idB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &LinkResult{UserA: *userA, UserB: *userB}, nil
}

func (s *Service) fetchEnriched(ctx context.Context, id string) (*EnrichedUser, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrichUser(ctx, user)
}

// enrichUser attaches the derived fields to a user, fetching the friend
// list and the score in parallel.
func (s *Service) enrichUser(ctx context.Context, user *User) (*EnrichedUser, error) {
	var (
		friends []string
		score   float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		friends, err = s.store.FriendIDs(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		score, err = s.ScoreForUser(gctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &EnrichedUser{
		User:            *user,
		Friends:         friends,
		PopularityScore: score,
	}, nil
}

// parseID validates an identifier as a UUID and returns its canonical
// lowercase form, so lexicographic pair ordering is stable regardless of
// the casing a caller used.
func parseID(value string) (string, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return "", apperrors.NewMalformedUserID(value, err)
	}
	return parsed.String(), nil
}
