package models_test

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillsync/skillsync/internal/domain/models"
)

func TestConnectionPairKey_OrderIndependent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	k1 := models.ConnectionPairKey(a, b)
	k2 := models.ConnectionPairKey(b, a)
	if k1 != k2 {
		t.Errorf("pair key must be symmetric: %q vs %q", k1, k2)
	}

	parts := strings.Split(k1, ":")
	if len(parts) != 2 {
		t.Fatalf("expected two hex parts, got %q", k1)
	}
	if parts[0] > parts[1] {
		t.Errorf("parts must be sorted: %q", k1)
	}
}

func TestConnectionPairKey_SelfPair(t *testing.T) {
	a := primitive.NewObjectID()
	want := a.Hex() + ":" + a.Hex()
	if got := models.ConnectionPairKey(a, a); got != want {
		t.Errorf("self pair: got %q, want %q", got, want)
	}
}
