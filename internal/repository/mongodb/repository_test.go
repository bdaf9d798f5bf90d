package mongodb

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/herd-admin/internal/repository"
)

func TestNameFilterEscapesAndIgnoresCase(t *testing.T) {
	filter := nameFilter("Plan.Gold+")
	regex, ok := filter["name"].(primitive.Regex)
	if !ok {
		t.Fatalf("name filter is %T", filter["name"])
	}
	if regex.Pattern != `^Plan\.Gold\+$` || regex.Options != "i" {
		t.Fatalf("regex: got pattern=%q options=%q", regex.Pattern, regex.Options)
	}
}

func TestAuditFilter(t *testing.T) {
	if len(auditFilter("")) != 0 {
		t.Fatalf("empty cuig must match everything")
	}
	if got := auditFilter("AB123"); got["establishment_cuig"] != "AB123" {
		t.Fatalf("cuig filter: got %v", got)
	}
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(2, 25)
	if *opts.Skip != 50 || *opts.Limit != 25 {
		t.Fatalf("skip/limit: got %d/%d", *opts.Skip, *opts.Limit)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || sort[0].Key != "audit_date" || sort[0].Value != -1 {
		t.Fatalf("sort: got %v", opts.Sort)
	}

	opts = pageOptions(-3, 0)
	if *opts.Skip != 0 || *opts.Limit != 1 {
		t.Fatalf("clamped skip/limit: got %d/%d", *opts.Skip, *opts.Limit)
	}
}

func TestNotFoundMapping(t *testing.T) {
	if !errors.Is(notFound(mongo.ErrNoDocuments), repository.ErrNotFound) {
		t.Fatalf("ErrNoDocuments must map to repository.ErrNotFound")
	}
	other := errors.New("socket closed")
	if notFound(other) != other {
		t.Fatalf("other errors must pass through")
	}
}

func TestAssignID(t *testing.T) {
	id := primitive.NewObjectID()
	var target primitive.ObjectID
	assignID(id, &target)
	if target != id {
		t.Fatalf("id not assigned")
	}
	assignID("not-an-id", &target)
	if target != id {
		t.Fatalf("non ObjectID values must be ignored")
	}
}
