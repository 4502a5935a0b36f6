package social

import "context"

// Store defines the persistence operations the service needs. The service
// consumes it as an injected interface so scoring and invariant logic stay
// testable without a live database.
type Store interface {
	// CreateUser inserts a new user with a generated ID and returns the
	// stored record. Returns ErrDuplicateUsername if the username is taken.
	CreateUser(ctx context.Context, username string, age int, hobbies []string) (*User, error)

	// GetUser retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetUser(ctx context.Context, id string) (*User, error)

	// ListUsers returns all users in creation-time order.
	ListUsers(ctx context.Context) ([]User, error)

	// UpdateUser overwrites username, age and hobbies for an existing user
	// and returns the stored record. Partial-update merging is the caller's
	// concern. Returns ErrUserNotFound or ErrDuplicateUsername.
	UpdateUser(ctx context.Context, id, username string, age int, hobbies []string) (*User, error)

	// DeleteUser removes a user row. Returns ErrUserNotFound if absent.
	// It does not check for incident edges; that guard lives in the service.
	DeleteUser(ctx context.Context, id string) error

	// ListFriendships returns every canonical edge.
	ListFriendships(ctx context.Context) ([]Friendship, error)

	// FriendIDs returns the IDs of every user linked to userID, in row order.
	FriendIDs(ctx context.Context, userID string) ([]string, error)

	// HobbiesOf returns the hobby lists of the given users in one query.
	HobbiesOf(ctx context.Context, userIDs []string) ([][]string, error)

	// CreateFriendship inserts the canonical pair (idLow < idHigh).
	// Returns ErrDuplicateFriendship if the pair exists and ErrUserNotFound
	// if either endpoint does not.
	CreateFriendship(ctx context.Context, idLow, idHigh string) error

	// DeleteFriendship removes the canonical pair. Returns
	// ErrFriendshipNotFound if no such edge exists.
	DeleteFriendship(ctx context.Context, idLow, idHigh string) error

	// HasAnyFriendship reports whether userID has at least one incident edge.
	HasAnyFriendship(ctx context.Context, userID string) (bool, error)

	// Ping verifies the store connection.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
