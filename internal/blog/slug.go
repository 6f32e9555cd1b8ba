package blog

import "github.com/gosimple/slug"

// Slugify derives the URL-safe slug for a post title: lowercase,
// hyphen-separated, deterministic for a given title. Uniqueness is not
// guaranteed here; the database unique index enforces it and collisions
// surface as a ConflictError.
func Slugify(title string) string {
	return slug.Make(title)
}
