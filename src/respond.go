package main

import (
	"errors"
	"log"
	"net/http"

	"boletera/src/types"

	"github.com/gin-gonic/gin"
)

// respondError turns an AppError into the wire shape the frontend expects.
// Storage causes are logged server-side only.
func respondError(ctx *gin.Context, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		if cause := errors.Unwrap(appErr); cause != nil {
			log.Printf("%s %s: %s\n", ctx.Request.Method, ctx.FullPath(), cause.Error())
		}
		payload := gin.H{"error": appErr.Message, "code": appErr.Code}
		if appErr.Details != nil {
			payload["detalles"] = appErr.Details
		}
		ctx.JSON(types.HTTPStatus(appErr), payload)
		return
	}
	log.Printf("%s %s: %s\n", ctx.Request.Method, ctx.FullPath(), err.Error())
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func isAdmin(ctx *gin.Context) bool {
	return ctx.GetString("role") == types.ROLE_ADMIN
}
