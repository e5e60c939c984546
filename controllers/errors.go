package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/queries"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
	"github.com/cppla/postboard/validators"
)

// respondError maps an operation error onto its status and body.
func respondError(ctx *gin.Context, err error) {
	var verr *validators.ValidationError
	switch {
	case errors.Is(err, ErrMalformedInput):
		utils.Error(ctx, http.StatusBadRequest, "No input data provided")
	case errors.As(err, &verr):
		utils.Respond(ctx, http.StatusUnprocessableEntity, verr)
	case errors.Is(err, validators.ErrNoParams):
		utils.Error(ctx, http.StatusUnprocessableEntity, "Data not provided.")
	case errors.Is(err, services.ErrEmailInUse):
		utils.Error(ctx, http.StatusUnprocessableEntity, "email already in use")
	case errors.Is(err, services.ErrAuthorNotFound):
		utils.Error(ctx, http.StatusUnprocessableEntity, "author not found")
	case errors.Is(err, queries.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, "user not found")
	default:
		utils.Sugar.Errorw("request failed",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"request_id", ctx.GetString(utils.RequestIDKey),
			"err", err,
		)
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}
