package cli

import (
	"context"
	"strings"
)

func (c *Cli) runStats(ctx context.Context) error {
	s, err := c.apiClient.Stats(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Catalog Statistics ===")
	c.io.Printf("Blogs:       %d\n", s.Count)
	c.io.Printf("Total likes: %d\n", s.TotalLikes)

	if s.Favorite == nil {
		c.io.Println("Catalog is empty.")
		return nil
	}
	c.io.Printf("Favorite:    %q by %s (%d likes)\n", s.Favorite.Title, s.Favorite.Author, s.Favorite.Likes)
	if s.MostBlogs != nil {
		c.io.Printf("Most blogs:  %s (%d)\n", s.MostBlogs.Author, s.MostBlogs.Blogs)
	}
	if s.MostLikes != nil {
		c.io.Printf("Most likes:  %s (%d)\n", s.MostLikes.Author, s.MostLikes.Likes)
	}
	return nil
}

func (c *Cli) runUsers(ctx context.Context) error {
	users, err := c.apiClient.ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		c.io.Println("No users yet.")
		return nil
	}

	for _, u := range users {
		c.io.Printf("%s (%s): %d blog(s)\n", u.Username, u.Name, len(u.Blogs))
		if len(u.Blogs) > 0 {
			c.io.Printf("  %s\n", strings.Join(u.Blogs, "\n  "))
		}
	}
	return nil
}
