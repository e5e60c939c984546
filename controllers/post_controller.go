package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/postboard/queries"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
	"github.com/cppla/postboard/validators"
)

const postsCachePrefix = "cache:posts:"

// PostController serves the post list and create endpoints.
type PostController struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB, cacheTTL time.Duration) *PostController {
	return &PostController{db: db, cacheTTL: cacheTTL}
}

// ListPosts returns posts filtered by author and sorted by their author's fields.
func (p *PostController) ListPosts(ctx *gin.Context) {
	in, err := readParams(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	params, err := validators.ParsePostList(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	rc := ctx.Request.Context()

	key := listCacheKey(postsCachePrefix+"list:", params)
	if b, ok := utils.CacheGetBytes(rc, key); ok {
		utils.RespondCached(ctx, b)
		return
	}
	env, err := queries.ListPosts(rc, p.db, queries.PostSpec(params))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.CacheSetJSON(rc, key, env, p.cacheTTL)
	utils.Success(ctx, env)
}

// CreatePost stores a post for an existing author.
func (p *PostController) CreatePost(ctx *gin.Context) {
	in, err := readBody(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	data, err := validators.ParsePostCreate(in)
	if err != nil {
		respondError(ctx, err)
		return
	}

	post, err := services.CreatePost(ctx.Request.Context(), p.db, data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// lists are sorted by author fields only, so user lists stay valid
	utils.InvalidateByPrefix(ctx.Request.Context(), postsCachePrefix)
	utils.Sugar.Infow("post created", "id", post.ID, "author", post.Author, "request_id", ctx.GetString(utils.RequestIDKey))
	utils.Success(ctx, gin.H{"message": "Created new post.", "post": post})
}
