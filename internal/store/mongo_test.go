package store

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestArtistFilter(t *testing.T) {
	got := artistFilter("madhubani")

	if got["is_active"] != true {
		t.Errorf("is_active = %v, want true", got["is_active"])
	}

	or, ok := got["$or"].([]bson.M)
	if !ok {
		t.Fatalf("$or has type %T, want []bson.M", got["$or"])
	}
	if len(or) != 3 {
		t.Fatalf("len($or) = %d, want 3", len(or))
	}
	wantRe := primitive.Regex{Pattern: "madhubani", Options: "i"}
	for i, field := range []string{"name", "artform", "bio"} {
		if !reflect.DeepEqual(or[i][field], wantRe) {
			t.Errorf("$or[%d][%s] = %v, want %v", i, field, or[i][field], wantRe)
		}
	}
}

func TestArtistFilterEscapesRegexMeta(t *testing.T) {
	got := artistFilter("art (new)")

	or := got["$or"].([]bson.M)
	re := or[0]["name"].(primitive.Regex)
	if re.Pattern != `art \(new\)` {
		t.Errorf("pattern = %q, want %q", re.Pattern, `art \(new\)`)
	}
}

func TestTitleFilter(t *testing.T) {
	got := titleFilter("warli")

	want := bson.M{
		"is_active": true,
		"is_public": true,
		"title":     primitive.Regex{Pattern: "warli", Options: "i"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("titleFilter = %v, want %v", got, want)
	}
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(20, 40)

	if opts.Limit == nil || *opts.Limit != 20 {
		t.Errorf("limit = %v, want 20", opts.Limit)
	}
	if opts.Skip == nil || *opts.Skip != 40 {
		t.Errorf("skip = %v, want 40", opts.Skip)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 1 || sort[0].Key != "created_at" || sort[0].Value != -1 {
		t.Errorf("sort = %v, want created_at desc", opts.Sort)
	}
}
