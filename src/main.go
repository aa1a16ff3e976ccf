package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"boletera/src/boot"
	"boletera/src/config"
	"boletera/src/middlewares"
	"boletera/src/monitoring"
	"boletera/src/services"
	"boletera/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/gorm"
)

const (
	apiPrefix string = "/api/v1"
)

var eventDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return !time.Now().After(datetime)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.Use(monitoring.RequestDuration())
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/metrics", monitoring.Handler())
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		enabled, err := strconv.ParseBool(mm)
		if err == nil && enabled {
			log.Println("server is under maintenance")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, "server is under maintenance")
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

type appServices struct {
	events     *services.EventService
	categories *services.CategoryService
	purchases  *services.PurchaseService
	ledger     *services.TicketLedger
	admissions *services.AdmissionLog
	gate       *services.GateService
}

func buildServices(gdb *gorm.DB) *appServices {
	inventory := services.NewInventoryStore(gdb)
	ledger := services.NewTicketLedger(gdb)
	admissions := services.NewAdmissionLog(gdb)
	return &appServices{
		events:     services.NewEventService(gdb, admissions),
		categories: services.NewCategoryService(gdb),
		purchases:  services.NewPurchaseService(gdb, inventory, ledger),
		ledger:     ledger,
		admissions: admissions,
		gate:       services.NewGateService(gdb, ledger, admissions),
	}
}

func registerRoutes(router *gin.Engine, gdb *gorm.DB, svcs *appServices) {
	authorized := apiv1Group(router)
	authorized.Use(middlewares.AuthMiddleware(gdb))
	{
		eventHandlers(authorized, svcs.events)
		categoryHandlers(authorized, svcs.categories)
		ticketHandlers(authorized, svcs.purchases, svcs.ledger)
	}

	organizer := apiv1Group(router).Group("/org")
	organizer.Use(middlewares.AuthMiddleware(gdb))
	organizer.Use(middlewares.RequireRoles(types.ROLE_ORGANIZER, types.ROLE_ADMIN))
	{
		organizerEventHandlers(organizer, svcs.events)
		organizerCategoryHandlers(organizer, svcs.categories)
		organizerTicketHandlers(organizer, svcs.ledger)
	}

	gate := apiv1Group(router)
	gate.Use(middlewares.AuthMiddleware(gdb))
	gate.Use(middlewares.RequireRoles(types.ROLE_GATE, types.ROLE_ADMIN))
	{
		gateHandlers(gate, svcs.gate, svcs.admissions, svcs.events)
	}
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	gdb := boot.InitDb()
	svcs := buildServices(gdb)
	boot.InitScheduler(svcs.events)
	go boot.InitBroker()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{appHost}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("eventdate", eventDateValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	registerRoutes(router, gdb, svcs)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %s", err.Error())
	}
}
