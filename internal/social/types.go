package social

import "time"

// User is a stored user record.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Age       int       `json:"age"`
	Hobbies   []string  `json:"hobbies"`
	CreatedAt time.Time `json:"createdAt"`
}

// Friendship is a canonical edge between two users. UserIDA is always the
// lexicographically smaller ID (see CanonicalPair). The JSON field names
// match the wire contract consumed by the graph frontend.
type Friendship struct {
	UserIDA string `json:"user_id_a"`
	UserIDB string `json:"user_id_b"`
}

// EnrichedUser is a user together with its derived fields: the resolved
// friend ID list and the popularity score. This is the shape every
// user-returning endpoint responds with.
type EnrichedUser struct {
	User
	Friends         []string `json:"friends"`
	PopularityScore float64  `json:"popularityScore"`
}

// Graph is the combined read used by the visualization frontend.
type Graph struct {
	Users       []EnrichedUser `json:"users"`
	Friendships []Friendship   `json:"friendships"`
}

// LinkResult holds both endpoints of a friendship after a link or unlink,
// each with freshly recomputed derived fields.
type LinkResult struct {
	UserA EnrichedUser `json:"userA"`
	UserB EnrichedUser `json:"userB"`
}
