package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of every plain message reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// Respond writes data as JSON with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Success returns 200 with data as the body.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, data)
}

// Error returns {"message": message} with the given status.
func Error(ctx *gin.Context, status int, message string) {
	Respond(ctx, status, MessageResponse{Message: message})
}

// RespondCached writes pre-encoded JSON bytes from the cache.
func RespondCached(ctx *gin.Context, body []byte) {
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
