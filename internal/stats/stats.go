// Package stats computes summaries over an in-memory collection of posts.
//
// All functions are pure and keep the input order significant: whenever two
// candidates tie, the one encountered first wins.
package stats

import (
	"errors"

	"github.com/iudanet/bloglist/internal/models"
)

// ErrEmptyInput is returned when a statistic has no meaningful value for an
// empty collection.
var ErrEmptyInput = errors.New("empty input: no posts to aggregate")

// Favorite is the projection of the most liked post.
type Favorite struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// AuthorPosts is an author together with the number of posts they wrote.
type AuthorPosts struct {
	Author string `json:"author"`
	Posts  int    `json:"blogs"`
}

// AuthorLikes is an author together with the likes summed over their posts.
type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Summary bundles every statistic for a collection.
type Summary struct {
	Favorite   *Favorite    `json:"favorite"`
	MostBlogs  *AuthorPosts `json:"most_blogs"`
	MostLikes  *AuthorLikes `json:"most_likes"`
	Count      int          `json:"count"`
	TotalLikes int          `json:"total_likes"`
}

// CountIdentity always returns 1 (len(posts)^0). Used as a smoke check.
func CountIdentity(posts []*models.Post) int {
	return 1
}

// TotalLikes returns the sum of likes over all posts, 0 for an empty slice.
func TotalLikes(posts []*models.Post) int {
	total := 0
	for _, p := range posts {
		total += p.Likes
	}
	return total
}

// FavoritePost returns the post with the most likes.
func FavoritePost(posts []*models.Post) (Favorite, error) {
	if len(posts) == 0 {
		return Favorite{}, ErrEmptyInput
	}

	best := posts[0]
	for _, p := range posts[1:] {
		// строгое сравнение: при равенстве остается первый
		if p.Likes > best.Likes {
			best = p
		}
	}

	return Favorite{Title: best.Title, Author: best.Author, Likes: best.Likes}, nil
}

// MostProlificAuthor returns the author with the most posts, or nil when
// posts is empty.
func MostProlificAuthor(posts []*models.Post) *AuthorPosts {
	author, n, ok := maxByAuthor(posts, func(*models.Post) int { return 1 })
	if !ok {
		return nil
	}
	return &AuthorPosts{Author: author, Posts: n}
}

// MostLikedAuthor returns the author whose posts collected the most likes,
// or nil when posts is empty.
func MostLikedAuthor(posts []*models.Post) *AuthorLikes {
	author, n, ok := maxByAuthor(posts, func(p *models.Post) int { return p.Likes })
	if !ok {
		return nil
	}
	return &AuthorLikes{Author: author, Likes: n}
}

// Summarize computes every statistic at once. Favorite is nil for an
// empty collection.
func Summarize(posts []*models.Post) Summary {
	s := Summary{
		Count:      len(posts),
		TotalLikes: TotalLikes(posts),
		MostBlogs:  MostProlificAuthor(posts),
		MostLikes:  MostLikedAuthor(posts),
	}
	if fav, err := FavoritePost(posts); err == nil {
		s.Favorite = &fav
	}
	return s
}

// maxByAuthor groups posts by author, accumulates weight(post) per group and
// returns the heaviest group. Ties go to the author that appeared first.
func maxByAuthor(posts []*models.Post, weight func(*models.Post) int) (string, int, bool) {
	if len(posts) == 0 {
		return "", 0, false
	}

	totals := make(map[string]int)
	order := make([]string, 0)
	for _, p := range posts {
		if _, seen := totals[p.Author]; !seen {
			order = append(order, p.Author)
		}
		totals[p.Author] += weight(p)
	}

	best := order[0]
	for _, author := range order[1:] {
		if totals[author] > totals[best] {
			best = author
		}
	}

	return best, totals[best], true
}
