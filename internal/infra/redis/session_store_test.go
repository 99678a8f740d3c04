package redis

import (
	"testing"
	"time"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	client, mr := testClient(t)
	store := NewSessionStore(client, time.Minute)

	_ = store.GetOrCreate("game-1")
	if !mr.Exists("lingoquest:session:game-1") {
		t.Fatalf("expected redis liveness key to be set")
	}

	store.Delete("game-1")
	if mr.Exists("lingoquest:session:game-1") {
		t.Fatalf("expected redis liveness key to be removed")
	}
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected session removed")
	}
}
