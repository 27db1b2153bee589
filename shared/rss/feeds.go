package rss

import "newsdash/types"

// DefaultSources are seeded into an empty database. Seeding never overwrites
// a source that already exists with the same URL.
var DefaultSources = []types.Source{
	{Name: "WordPress.org News", URL: "https://wordpress.org/news/feed/", Category: "WordPress"},
	{Name: "WP Tavern", URL: "https://wptavern.com/feed", Category: "WordPress"},
	{Name: "CSS-Tricks", URL: "https://css-tricks.com/feed/", Category: "Design"},
	{Name: "Smashing Magazine", URL: "https://www.smashingmagazine.com/feed/", Category: "Design"},
	{Name: "A List Apart", URL: "https://alistapart.com/main/feed/", Category: "Design"},
	{Name: "GitHub Blog", URL: "https://github.blog/feed/", Category: "Development"},
}
