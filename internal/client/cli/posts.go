package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/iudanet/bloglist/pkg/api"
)

func (c *Cli) runList(ctx context.Context) error {
	posts, err := c.apiClient.ListPosts(ctx)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		c.io.Println("No blogs yet.")
		return nil
	}

	c.io.Printf("=== Blogs (%d) ===\n\n", len(posts))
	for _, p := range posts {
		printPost(c, p)
	}
	return nil
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "blog title")
	author := fs.String("author", "", "blog author")
	url := fs.String("url", "", "blog url")
	likes := fs.Int("likes", -1, "initial likes")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	// Обязательные поля спрашиваем интерактивно, если не заданы флагами
	var err error
	if *title == "" {
		if *title, err = c.io.ReadInput("Title: "); err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
	}
	if *url == "" {
		if *url, err = c.io.ReadInput("URL: "); err != nil {
			return fmt.Errorf("failed to read url: %w", err)
		}
	}

	req := api.PostRequest{Title: *title, Author: *author, URL: *url}
	if *likes >= 0 {
		req.Likes = likes
	}

	token, err := c.optionalToken(ctx)
	if err != nil {
		return err
	}

	post, err := c.apiClient.CreatePost(ctx, token, req)
	if err != nil {
		return err
	}

	c.io.Println("✓ Blog added")
	printPost(c, *post)
	return nil
}

func (c *Cli) runLike(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: like <id> [likes]", ErrUsage)
	}
	id := args[0]

	var likes int
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: likes must be a number", ErrUsage)
		}
		likes = n
	} else {
		post, err := c.apiClient.GetPost(ctx, id)
		if err != nil {
			return err
		}
		likes = post.Likes + 1
	}

	// Лайкать может кто угодно: сервер не проверяет токен для лайков,
	// поэтому истекшая сессия здесь не мешает
	token, _ := c.authService.Token(ctx)

	post, err := c.apiClient.UpdatePost(ctx, token, id, api.UpdatePostRequest{Likes: &likes})
	if err != nil {
		return err
	}

	c.io.Printf("✓ %q now has %d likes\n", post.Title, post.Likes)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <id>", ErrUsage)
	}

	token, err := c.authService.Token(ctx)
	if err != nil {
		return err
	}

	if err := c.apiClient.DeletePost(ctx, token, args[0]); err != nil {
		return err
	}

	c.io.Println("✓ Blog deleted")
	return nil
}

func printPost(c *Cli, p api.PostResponse) {
	c.io.Printf("ID:     %s\n", p.ID)
	c.io.Printf("Title:  %s\n", p.Title)
	if p.Author != "" {
		c.io.Printf("Author: %s\n", p.Author)
	}
	c.io.Printf("URL:    %s\n", p.URL)
	c.io.Printf("Likes:  %d\n", p.Likes)
	if p.User != nil {
		c.io.Printf("Owner:  %s\n", *p.User)
	}
	c.io.Println()
}
