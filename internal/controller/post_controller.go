package controller

import (
	"encoding/json"
	"net/http"
	"time"

	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/model"
	"github.com/klass-lk/blog-api/internal/service"
)

type CreatePostRequest struct {
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Author  model.Author `json:"author"`
	Created *time.Time   `json:"created"`
}

// UpdatePostRequest keeps the body id undecoded so that a non-string id is
// reported as an id mismatch rather than a decoding failure.
type UpdatePostRequest struct {
	ID      json.RawMessage `json:"id"`
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Author  model.Author    `json:"author"`
}

// bodyID returns the body id and whether it is a JSON string.
func (r UpdatePostRequest) bodyID() (string, bool) {
	var id string
	if err := json.Unmarshal(r.ID, &id); err != nil {
		return string(r.ID), false
	}
	return id, true
}

var (
	createRequiredFields = []string{"title", "content", "author"}
	updateRequiredFields = []string{"title", "content", "author", "id"}
)

type PostController struct {
	postService *service.PostService
}

func NewPostController(postService *service.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

func (c *PostController) Register(group *blogapi.ControllerGroup) {
	group.GET("", c.GetPosts)
	group.GET("/:id", c.GetPost)
	group.POST("", c.CreatePost)
	group.PUT("/:id", c.UpdatePost)
	group.DELETE("/:id", c.DeletePost)
}

func (c *PostController) GetPosts(ctx *blogapi.Context) {
	posts, err := c.postService.GetPosts(ctx.Request.Context())
	if err != nil {
		ctx.SendError(err)
		return
	}
	ctx.JSON(http.StatusOK, model.SerializeAll(posts))
}

func (c *PostController) GetPost(ctx *blogapi.Context) {
	post, err := c.postService.GetPostById(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.SendError(err)
		return
	}
	ctx.JSON(http.StatusOK, model.Serialize(post))
}

func (c *PostController) CreatePost(ctx *blogapi.Context) {
	var req CreatePostRequest
	if err := ctx.BindJSONFields(&req, createRequiredFields...); err != nil {
		ctx.SendError(err)
		return
	}

	post := model.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}
	if req.Created != nil {
		post.Created = *req.Created
	}

	created, err := c.postService.CreatePost(ctx.Request.Context(), post)
	if err != nil {
		ctx.SendError(err)
		return
	}
	ctx.JSON(http.StatusCreated, model.Serialize(created))
}

func (c *PostController) UpdatePost(ctx *blogapi.Context) {
	var req UpdatePostRequest
	if err := ctx.BindJSONFields(&req, updateRequiredFields...); err != nil {
		ctx.SendError(err)
		return
	}

	id := ctx.Param("id")
	if bodyID, ok := req.bodyID(); !ok || bodyID != id {
		ctx.SendError(blogapi.ErrIDMismatch.New(id, bodyID))
		return
	}

	update := model.PostUpdate{
		Title:   &req.Title,
		Content: &req.Content,
		Author:  &req.Author,
	}
	if _, err := c.postService.UpdatePost(ctx.Request.Context(), id, update); err != nil {
		ctx.SendError(err)
		return
	}
	ctx.NoContent()
}

func (c *PostController) DeletePost(ctx *blogapi.Context) {
	if err := c.postService.DeletePost(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.SendError(err)
		return
	}
	ctx.NoContent()
}
