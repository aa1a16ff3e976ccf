package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"boletera/src/config"
	"boletera/src/lib"
	"boletera/src/monitoring"
	"boletera/src/services"
	"boletera/src/types"
	"boletera/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func ticketHandlers(g *gin.RouterGroup, purchases *services.PurchaseService, ledger *services.TicketLedger) *gin.RouterGroup {
	g.
		POST("/tickets/purchase", func(ctx *gin.Context) {
			var body types.PurchaseTicketsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			buyerID := ctx.GetUint("id")
			tickets, err := purchases.Purchase(ctx, buyerID, &body)
			if err != nil {
				monitoring.TrackPurchase(body.EventID, string(types.CodeOf(err)))
				respondError(ctx, err)
				return
			}
			monitoring.TrackPurchase(body.EventID, "ok")

			codes := make([]string, 0, len(tickets))
			for _, t := range tickets {
				codes = append(codes, t.Code)
			}
			total := tickets[0].Category.Price.
				Mul(decimal.NewFromInt(int64(len(tickets)))).
				StringFixed(2)
			go lib.KafkaProduceMessage("compras", config.TOPIC_TICKETS_PURCHASED, map[string]any{
				"correo_comprador": ctx.GetString("email"),
				"nombre_comprador": ctx.GetString("email"),
				"evento":           tickets[0].Event.Name,
				"categoria":        tickets[0].Category.Name,
				"cantidad":         len(tickets),
				"total":            total,
				"codigos":          codes,
			})

			ctx.JSON(http.StatusCreated, gin.H{"data": tickets})
		}).
		GET("/tickets/own", func(ctx *gin.Context) {
			buyerID := ctx.GetUint("id")
			tickets, err := ledger.FindByBuyer(ctx, buyerID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := ledger.FindByID(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			if ticket.BuyerID != ctx.GetUint("id") && !isAdmin(ctx) {
				respondError(ctx, types.NewAppError(types.CODE_UNAUTHORIZED, ""))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := purchases.Cancel(ctx, params.ID, ctx.GetUint("id"), ctx.GetString("role"))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		GET("/tickets/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := ledger.FindByID(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			if ticket.BuyerID != ctx.GetUint("id") && !isAdmin(ctx) {
				respondError(ctx, types.NewAppError(types.CODE_UNAUTHORIZED, ""))
				return
			}
			if ticket.Status != types.TICKET_VALID {
				respondError(ctx, types.NewAppError(types.CODE_TICKET_INVALID, "el boleto ya no es válido"))
				return
			}

			filename := fmt.Sprintf("boleto_%d", ticket.ID)
			rd := lib.GetRedisClient()
			if rd != nil {
				cached, err := rd.Get(context.Background(), filename).Result()
				if err != nil && !errors.Is(err, redis.Nil) {
					log.Printf("Error reading from cache: %s\n", err.Error())
				}
				if cached != "" {
					if _, err := os.Stat(cached); err == nil {
						ctx.FileAttachment(cached, "boleto.jpeg")
						return
					}
				}
			}

			keyEnv := os.Getenv("API_QRC_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				log.Printf("Could not read key from string: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", filename))
			if err := utils.SaveTicketQR(key, ticket, filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if rd != nil {
				rd.SetEx(context.Background(), filename, filepath, 2*time.Hour)
			}
			ctx.FileAttachment(filepath, "boleto.jpeg")
		})
	return g
}

func organizerTicketHandlers(g *gin.RouterGroup, ledger *services.TicketLedger) *gin.RouterGroup {
	g.
		GET("/events/:id/tickets", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tickets, err := ledger.FindByEvent(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		GET("/events/:id/tickets/stats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			stats, err := ledger.StatsByEvent(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		})
	return g
}
