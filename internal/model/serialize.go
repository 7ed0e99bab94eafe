package model

import (
	"strings"
	"time"
)

// PostResponse is the wire form of a post. The structured author is
// flattened to a display name.
type PostResponse struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Created time.Time `json:"created"`
}

type PostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

// AuthorName joins first and last name with a space and trims the result.
func AuthorName(a Author) string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func Serialize(p Post) PostResponse {
	return PostResponse{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Author:  AuthorName(p.Author),
		Created: p.Created,
	}
}

func SerializeAll(posts []Post) PostsResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = Serialize(p)
	}
	return PostsResponse{Posts: out}
}
