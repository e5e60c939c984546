package controllers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/postboard/queries"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
	"github.com/cppla/postboard/validators"
)

const usersCachePrefix = "cache:users:"

// UserController serves the user list and create endpoints.
type UserController struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// NewUserController creates a UserController. cacheTTL applies when the redis cache is on.
func NewUserController(db *gorm.DB, cacheTTL time.Duration) *UserController {
	return &UserController{db: db, cacheTTL: cacheTTL}
}

// ListUsers returns the {total_count, items} envelope, or one user when id is given.
func (u *UserController) ListUsers(ctx *gin.Context) {
	in, err := readParams(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	params, err := validators.ParseUserList(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	rc := ctx.Request.Context()

	if params.ID != nil {
		key := usersCachePrefix + "id:" + strconv.Itoa(*params.ID)
		if b, ok := utils.CacheGetBytes(rc, key); ok {
			utils.RespondCached(ctx, b)
			return
		}
		user, err := queries.GetUser(rc, u.db, *params.ID)
		if err != nil {
			respondError(ctx, err)
			return
		}
		utils.CacheSetJSON(rc, key, user, u.cacheTTL)
		utils.Success(ctx, user)
		return
	}

	key := listCacheKey(usersCachePrefix+"list:", params)
	if b, ok := utils.CacheGetBytes(rc, key); ok {
		utils.RespondCached(ctx, b)
		return
	}
	env, err := queries.ListUsers(rc, u.db, queries.UserSpec(params))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.CacheSetJSON(rc, key, env, u.cacheTTL)
	utils.Success(ctx, env)
}

// CreateUser stores a user whose email is not yet taken.
func (u *UserController) CreateUser(ctx *gin.Context) {
	in, err := readBody(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	data, err := validators.ParseUserCreate(in)
	if err != nil {
		respondError(ctx, err)
		return
	}

	user, err := services.CreateUser(ctx.Request.Context(), u.db, data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(ctx.Request.Context(), usersCachePrefix)
	utils.Sugar.Infow("user created", "id", user.ID, "request_id", ctx.GetString(utils.RequestIDKey))
	utils.Success(ctx, gin.H{"message": "Created new user.", "user": user})
}

// listCacheKey derives a stable key from validated params; pointer fields encode as null when unset.
func listCacheKey(prefix string, params any) string {
	b, err := json.Marshal(params)
	if err != nil {
		return prefix
	}
	return prefix + string(b)
}
