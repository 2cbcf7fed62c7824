package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Translation holds the localized title/description pair stored per language
// code on an artwork.
type Translation struct {
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Location struct {
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// SearchFields is the flat projection of a stored document that the relevance
// scorer reads. Absent fields are zero values and simply contribute no points.
type SearchFields struct {
	Title             string
	Description       string
	Artform           string
	Category          string
	Tags              []string
	TitleTranslations map[string]string
	LikesCount        int
	BookmarksCount    int
}

type Artwork struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title        string                 `bson:"title" json:"title"`
	Description  string                 `bson:"description,omitempty" json:"description,omitempty"`
	Artform      string                 `bson:"artform,omitempty" json:"artform,omitempty"`
	Category     string                 `bson:"category,omitempty" json:"category,omitempty"`
	Tags         []string               `bson:"tags,omitempty" json:"tags,omitempty"`
	Location     Location               `bson:"location,omitempty" json:"location,omitempty"`
	Translations map[string]Translation `bson:"translations,omitempty" json:"translations,omitempty"`
	ImageURL     string                 `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ArtistID     primitive.ObjectID     `bson:"artist_id,omitempty" json:"artist_id,omitempty"`
	Likes        []string               `bson:"likes,omitempty" json:"likes,omitempty"`
	Bookmarks    []string               `bson:"bookmarks,omitempty" json:"bookmarks,omitempty"`
	IsActive     bool                   `bson:"is_active" json:"is_active"`
	IsPublic     bool                   `bson:"is_public" json:"is_public"`
	CreatedAt    time.Time              `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt    time.Time              `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (a Artwork) SearchFields() SearchFields {
	var titles map[string]string
	if len(a.Translations) > 0 {
		titles = make(map[string]string, len(a.Translations))
		for lang, tr := range a.Translations {
			titles[lang] = tr.Title
		}
	}
	return SearchFields{
		Title:             a.Title,
		Description:       a.Description,
		Artform:           a.Artform,
		Category:          a.Category,
		Tags:              a.Tags,
		TitleTranslations: titles,
		LikesCount:        len(a.Likes),
		BookmarksCount:    len(a.Bookmarks),
	}
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Artform     string             `bson:"artform,omitempty" json:"artform,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Location    Location           `bson:"location,omitempty" json:"location,omitempty"`
	OrganizerID primitive.ObjectID `bson:"organizer_id,omitempty" json:"organizer_id,omitempty"`
	Interested  []string           `bson:"interested,omitempty" json:"interested,omitempty"`
	Bookmarks   []string           `bson:"bookmarks,omitempty" json:"bookmarks,omitempty"`
	StartsAt    time.Time          `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt      time.Time          `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

func (e Event) SearchFields() SearchFields {
	return SearchFields{
		Title:          e.Title,
		Description:    e.Description,
		Artform:        e.Artform,
		Category:       e.Category,
		Tags:           e.Tags,
		LikesCount:     len(e.Interested),
		BookmarksCount: len(e.Bookmarks),
	}
}

type Artist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Artform   string             `bson:"artform,omitempty" json:"artform,omitempty"`
	Location  Location           `bson:"location,omitempty" json:"location,omitempty"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Followers []string           `bson:"followers,omitempty" json:"followers,omitempty"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

func (a Artist) SearchFields() SearchFields {
	return SearchFields{
		Title:       a.Name,
		Description: a.Bio,
		Artform:     a.Artform,
		LikesCount:  len(a.Followers),
	}
}
