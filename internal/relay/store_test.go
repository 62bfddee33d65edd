package relay

import (
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *ClientStore {
	t.Helper()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	return NewClientStore(db)
}

func TestClientStoreCreateAndList(t *testing.T) {
	store := newTestStore(t)

	for _, nickname := range []string{"alice", "bob", "carol"} {
		if err := store.CreateClient(nickname, "127.0.0.1:1234"); err != nil {
			t.Fatalf("CreateClient %s failed: %v", nickname, err)
		}
	}

	nicknames, err := store.ListNicknames()
	if err != nil {
		t.Fatalf("ListNicknames failed: %v", err)
	}

	want := []string{"alice", "bob", "carol"}
	if !reflect.DeepEqual(nicknames, want) {
		t.Errorf("Expected arrival order %v, got %v", want, nicknames)
	}
}

func TestClientStoreDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.CreateClient("alice", "127.0.0.1:1"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if err := store.CreateClient("bob", "127.0.0.1:2"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	if err := store.DeleteClient("alice"); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}

	nicknames, err := store.ListNicknames()
	if err != nil {
		t.Fatalf("ListNicknames failed: %v", err)
	}
	if len(nicknames) != 1 || nicknames[0] != "bob" {
		t.Errorf("Expected [bob], got %v", nicknames)
	}
}

func TestClientStoreEmptyList(t *testing.T) {
	store := newTestStore(t)

	nicknames, err := store.ListNicknames()
	if err != nil {
		t.Fatalf("ListNicknames failed: %v", err)
	}
	if len(nicknames) != 0 {
		t.Errorf("Expected empty roster, got %v", nicknames)
	}
}
