package middlewares

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"boletera/src/models"
	"boletera/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// AuthMiddleware validates the bearer token and loads the account it names
// into the request context under id, uid, email and role.
func AuthMiddleware(gdb *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		if !strings.HasPrefix(bearerToken, "Bearer") {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		reqToken := strings.Split(bearerToken, " ")[1]
		if reqToken == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			return jwtKey, nil
		})
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !tkn.Valid {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		uid, err := strconv.Atoi(claims.Subject)
		if err != nil {
			log.Println("error parsing claims:", err.Error())
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		var user models.User
		gdb.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).Find(&user)
		if uint(uid) != user.ID || user.ID < 1 {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !user.Active {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.Set("email", user.Email)
		ctx.Set("id", user.ID)
		ctx.Set("uid", user.UID)
		ctx.Set("role", user.Role)
	}
}

// SetJWTKey overrides the signing key. Used by tests.
func SetJWTKey(key []byte) {
	jwtKey = key
}
