package entities

import (
	"time"

	"github.com/lib/pq"
)

// DefaultBlogAuthor is used when a post is created without an author
const DefaultBlogAuthor = "RIII Team"

// Review is a customer testimonial. Service is the free-text service name.
type Review struct {
	ID      string  `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Service string  `json:"service" db:"service"`
	Rating  int     `json:"rating" db:"rating"`
	Comment string  `json:"comment" db:"comment"`
	Date    string  `json:"date" db:"date"`
	Avatar  *string `json:"avatar" db:"avatar"`
}

// ReviewDraft is the caller-supplied review. Date is accepted but ignored.
type ReviewDraft struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Service string   `json:"service"`
	Rating  *float64 `json:"rating"`
	Comment string   `json:"comment"`
	Date    string   `json:"date"`
	Avatar  string   `json:"avatar"`
}

// ReviewPatch holds the fields that may change on a review
type ReviewPatch struct {
	Name    *string `json:"name"`
	Service *string `json:"service"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
	Avatar  *string `json:"avatar"`
}

// Changes returns the set fields keyed by column name
func (p *ReviewPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setString(changes, "name", p.Name)
	setString(changes, "service", p.Service)
	setString(changes, "comment", p.Comment)
	if p.Rating != nil {
		changes["rating"] = *p.Rating
	}
	if p.Avatar != nil {
		if *p.Avatar == "" {
			changes["avatar"] = nil
		} else {
			changes["avatar"] = *p.Avatar
		}
	}
	return changes
}

// Blog is a published article
type Blog struct {
	ID        string         `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	Slug      string         `json:"slug" db:"slug"`
	Content   string         `json:"content" db:"content"`
	Image     string         `json:"image" db:"image"`
	Author    string         `json:"author" db:"author"`
	Published bool           `json:"published" db:"published"`
	Hashtags  pq.StringArray `json:"hashtags" db:"hashtags"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// BlogPatch holds the fields that may change on a post. Slug follows Title.
type BlogPatch struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Image     *string   `json:"image"`
	Author    *string   `json:"author"`
	Published *bool     `json:"published"`
	Hashtags  *[]string `json:"hashtags"`
}

// Changes returns the set fields keyed by column name
func (p *BlogPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setString(changes, "title", p.Title)
	setString(changes, "content", p.Content)
	setString(changes, "image", p.Image)
	setString(changes, "author", p.Author)
	if p.Published != nil {
		changes["published"] = *p.Published
	}
	if p.Hashtags != nil {
		changes["hashtags"] = pq.StringArray(*p.Hashtags)
	}
	return changes
}
