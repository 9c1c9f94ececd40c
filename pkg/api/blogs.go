package api

import "time"

// PostRequest представляет запрос на создание записи
type PostRequest struct {
	Likes  *int   `json:"likes,omitempty"` // по умолчанию 0
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// UpdatePostRequest представляет частичное обновление записи.
// Отсутствующие поля не изменяются.
type UpdatePostRequest struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	URL    *string `json:"url,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// PostResponse представляет запись блога
type PostResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *string   `json:"user,omitempty"` // ID владельца
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
}

// FavoriteResponse представляет самую популярную запись
type FavoriteResponse struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// AuthorBlogsResponse представляет автора с количеством записей
type AuthorBlogsResponse struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

// AuthorLikesResponse представляет автора с суммой лайков
type AuthorLikesResponse struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// StatsResponse представляет сводную статистику каталога.
// Для пустого каталога favorite, most_blogs и most_likes равны null.
type StatsResponse struct {
	Favorite   *FavoriteResponse    `json:"favorite"`
	MostBlogs  *AuthorBlogsResponse `json:"most_blogs"`
	MostLikes  *AuthorLikesResponse `json:"most_likes"`
	Count      int                  `json:"count"`
	TotalLikes int                  `json:"total_likes"`
}
