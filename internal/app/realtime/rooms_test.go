// internal/app/realtime/rooms_test.go

package realtime

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDeriveRoomIDIsSymmetric(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if DeriveRoomID(a, b) != DeriveRoomID(b, a) {
		t.Errorf("room ids differ: %q vs %q", DeriveRoomID(a, b), DeriveRoomID(b, a))
	}
}

func TestDeriveRoomIDSortsParticipants(t *testing.T) {
	a, err := primitive.ObjectIDFromHex("aaaaaaaaaaaaaaaaaaaaaaaa")
	if err != nil {
		t.Fatal(err)
	}
	b, err := primitive.ObjectIDFromHex("bbbbbbbbbbbbbbbbbbbbbbbb")
	if err != nil {
		t.Fatal(err)
	}

	want := "aaaaaaaaaaaaaaaaaaaaaaaa_bbbbbbbbbbbbbbbbbbbbbbbb"
	if got := DeriveRoomID(b, a); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDeriveRoomIDDistinctPairs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	if DeriveRoomID(a, b) == DeriveRoomID(a, c) {
		t.Error("different pairs derived the same room id")
	}
	if !strings.Contains(DeriveRoomID(a, b), "_") {
		t.Error("room id missing separator")
	}
}
