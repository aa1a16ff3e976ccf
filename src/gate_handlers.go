package main

import (
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"boletera/src/config"
	"boletera/src/lib"
	"boletera/src/monitoring"
	"boletera/src/services"
	"boletera/src/types"
	"boletera/src/utils"

	"github.com/gin-gonic/gin"
)

// decodeScannedCode accepts either the raw admission code or the encrypted
// QR content and returns the admission code.
func decodeScannedCode(scanned string) string {
	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		return scanned
	}
	message, err := utils.DecryptMessage(key, scanned)
	if err != nil {
		return scanned
	}
	var payload utils.TicketQRPayload
	if err := json.Unmarshal([]byte(*message), &payload); err != nil || payload.Code == "" {
		return scanned
	}
	return payload.Code
}

func gateHandlers(g *gin.RouterGroup, gate *services.GateService, admissions *services.AdmissionLog, events *services.EventService) *gin.RouterGroup {
	g.
		POST("/gate/validate", func(ctx *gin.Context) {
			var body types.ValidateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			summary, err := gate.Validate(ctx, decodeScannedCode(body.Code))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": summary})
		}).
		POST("/gate/admit", func(ctx *gin.Context) {
			var body types.AdmitTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			operatorID := ctx.GetUint("id")
			confirmation, err := gate.Admit(ctx, decodeScannedCode(body.Code), operatorID, body.Location)
			if err != nil {
				monitoring.TrackAdmission(0, string(types.CodeOf(err)))
				respondError(ctx, err)
				return
			}
			monitoring.TrackAdmission(confirmation.EventID, "ok")

			go lib.KafkaProduceMessage("ingresos", config.TOPIC_ADMISSION_RECORDED, map[string]any{
				"ingreso_id": confirmation.AdmissionID,
				"boleto_id":  confirmation.TicketID,
				"evento_id":  confirmation.EventID,
				"operador":   operatorID,
				"fecha":      confirmation.AdmittedAt,
			})

			ctx.JSON(http.StatusOK, gin.H{"data": confirmation})
		}).
		GET("/gate/events/:id/entries", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			entries, err := admissions.ListByEvent(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries})
		}).
		GET("/gate/events/:id/entries/recent", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query types.RecentEntriesQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			entries, err := admissions.RecentByEvent(ctx, params.ID, query.Limit)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries})
		}).
		GET("/gate/events/:id/occupancy", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			summary, err := events.Occupancy(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": summary})
		}).
		GET("/gate/events/:id/stats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			stats, err := admissions.StatsByCategory(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		})
	return g
}
