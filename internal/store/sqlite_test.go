package store

import (
	"context"
	"path/filepath"
	"testing"

	"friendgraph/internal/social"
	apperrors "friendgraph/pkg/errors"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return st
}

func mustCreateUser(t *testing.T, st *SQLiteStore, username string, hobbies []string) *social.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), username, 30, hobbies)
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func canonical(a, b *social.User) (string, string) {
	return social.CanonicalPair(a.ID, b.ID)
}

func TestSQLiteStore_CreateAndGetUser(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	created := mustCreateUser(t, st, "alice", []string{"reading", "hiking"})

	got, err := st.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}

	if got.Username != "alice" {
		t.Errorf("expected username alice, got %s", got.Username)
	}
	if got.Age != 30 {
		t.Errorf("expected age 30, got %d", got.Age)
	}
	if len(got.Hobbies) != 2 || got.Hobbies[0] != "reading" || got.Hobbies[1] != "hiking" {
		t.Errorf("hobbies mismatch: %v", got.Hobbies)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt mismatch: %v != %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestSQLiteStore_CreateUser_NilHobbiesBecomeEmptyList(t *testing.T) {
	st := setupTestStore(t)

	created := mustCreateUser(t, st, "alice", nil)

	got, err := st.GetUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Hobbies == nil || len(got.Hobbies) != 0 {
		t.Errorf("expected empty hobby list, got %v", got.Hobbies)
	}
}

func TestSQLiteStore_CreateUser_DuplicateUsername(t *testing.T) {
	st := setupTestStore(t)

	mustCreateUser(t, st, "alice", nil)

	_, err := st.CreateUser(context.Background(), "alice", 40, nil)
	if err == nil {
		t.Fatal("expected duplicate username error")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestSQLiteStore_GetUser_NotFound(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.GetUser(context.Background(), "ffffffff-ffff-ffff-ffff-ffffffffffff")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestSQLiteStore_ListUsers_CreationOrder(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, st, "alice", nil)
	mustCreateUser(t, st, "bob", nil)
	mustCreateUser(t, st, "carol", nil)

	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}

	want := []string{"alice", "bob", "carol"}
	if len(users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(users))
	}
	for i, username := range want {
		if users[i].Username != username {
			t.Errorf("position %d: expected %s, got %s", i, username, users[i].Username)
		}
	}
}

func TestSQLiteStore_UpdateUser(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	created := mustCreateUser(t, st, "alice", []string{"reading"})

	updated, err := st.UpdateUser(ctx, created.ID, "alicia", 31, []string{"chess"})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Username != "alicia" || updated.Age != 31 {
		t.Errorf("update not applied: %+v", updated)
	}
	if len(updated.Hobbies) != 1 || updated.Hobbies[0] != "chess" {
		t.Errorf("hobbies not updated: %v", updated.Hobbies)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt must be immutable: %v != %v", updated.CreatedAt, created.CreatedAt)
	}

	_, err = st.UpdateUser(ctx, "ffffffff-ffff-ffff-ffff-ffffffffffff", "x", 1, nil)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestSQLiteStore_UpdateUser_DuplicateUsername(t *testing.T) {
	st := setupTestStore(t)

	mustCreateUser(t, st, "alice", nil)
	bob := mustCreateUser(t, st, "bob", nil)

	_, err := st.UpdateUser(context.Background(), bob.ID, "alice", 30, nil)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestSQLiteStore_CreateFriendship_ReverseDuplicate(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice", nil)
	bob := mustCreateUser(t, st, "bob", nil)
	low, high := canonical(alice, bob)

	if err := st.CreateFriendship(ctx, low, high); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}

	// The same canonical pair again is the reverse request after
	// canonicalization; the primary key rejects it.
	err := st.CreateFriendship(ctx, low, high)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}

	friendships, err := st.ListFriendships(ctx)
	if err != nil {
		t.Fatalf("ListFriendships failed: %v", err)
	}
	if len(friendships) != 1 {
		t.Errorf("expected exactly one edge, got %d", len(friendships))
	}
}

func TestSQLiteStore_CreateFriendship_UnknownEndpoint(t *testing.T) {
	st := setupTestStore(t)

	alice := mustCreateUser(t, st, "alice", nil)
	low, high := social.CanonicalPair(alice.ID, "ffffffff-ffff-ffff-ffff-ffffffffffff")

	err := st.CreateFriendship(context.Background(), low, high)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestSQLiteStore_DeleteFriendship(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice", nil)
	bob := mustCreateUser(t, st, "bob", nil)
	low, high := canonical(alice, bob)

	err := st.DeleteFriendship(ctx, low, high)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error before link, got %v", err)
	}

	if err := st.CreateFriendship(ctx, low, high); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}
	if err := st.DeleteFriendship(ctx, low, high); err != nil {
		t.Fatalf("DeleteFriendship failed: %v", err)
	}

	friendships, err := st.ListFriendships(ctx)
	if err != nil {
		t.Fatalf("ListFriendships failed: %v", err)
	}
	if len(friendships) != 0 {
		t.Errorf("expected no edges, got %d", len(friendships))
	}
}

func TestSQLiteStore_FriendIDsAndHasAnyFriendship(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice", nil)
	bob := mustCreateUser(t, st, "bob", nil)
	carol := mustCreateUser(t, st, "carol", nil)

	low, high := canonical(alice, bob)
	if err := st.CreateFriendship(ctx, low, high); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}
	low, high = canonical(alice, carol)
	if err := st.CreateFriendship(ctx, low, high); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}

	ids, err := st.FriendIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FriendIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(ids))
	}
	seen := map[string]bool{ids[0]: true, ids[1]: true}
	if !seen[bob.ID] || !seen[carol.ID] {
		t.Errorf("friend ids mismatch: %v", ids)
	}

	linked, err := st.HasAnyFriendship(ctx, bob.ID)
	if err != nil {
		t.Fatalf("HasAnyFriendship failed: %v", err)
	}
	if !linked {
		t.Error("expected bob to have a friendship")
	}

	dave := mustCreateUser(t, st, "dave", nil)
	linked, err = st.HasAnyFriendship(ctx, dave.ID)
	if err != nil {
		t.Fatalf("HasAnyFriendship failed: %v", err)
	}
	if linked {
		t.Error("expected dave to have no friendships")
	}
}

func TestSQLiteStore_HobbiesOf(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice", []string{"reading"})
	bob := mustCreateUser(t, st, "bob", nil)

	lists, err := st.HobbiesOf(ctx, []string{alice.ID, bob.ID})
	if err != nil {
		t.Fatalf("HobbiesOf failed: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 hobby lists, got %d", len(lists))
	}

	lists, err = st.HobbiesOf(ctx, nil)
	if err != nil {
		t.Fatalf("HobbiesOf(nil) failed: %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("expected no lists, got %v", lists)
	}
}

func TestSQLiteStore_DeleteUser(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice", nil)

	if err := st.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	err := st.DeleteUser(ctx, alice.ID)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}
