// Package server assembles the HTTP router shared by cmd/api and the
// end-to-end tests.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelpms/internal/kitchen"
	"hotelpms/internal/middleware"
	"hotelpms/internal/modules/auth"
	"hotelpms/internal/modules/booking"
	"hotelpms/internal/modules/customer"
	"hotelpms/internal/modules/food"
	"hotelpms/internal/modules/ledger"
	"hotelpms/internal/modules/report"
	"hotelpms/internal/modules/room"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/repository"
)

type Deps struct {
	DB          *gorm.DB
	JWT         *jwt.Service
	Log         logrus.FieldLogger
	Location    *time.Location
	Hub         *kitchen.Hub
	Notifier    kitchen.Notifier
	CORSOrigins []string
	// Now overrides the services' clock; nil means time.Now.
	Now func() time.Time
}

// New wires every module onto a gin engine.
func New(d Deps) *gin.Engine {
	if d.Hub == nil {
		d.Hub = kitchen.NewHub(d.Log)
	}
	if d.Notifier == nil {
		d.Notifier = d.Hub
	}

	ledgerSvc := ledger.NewService(d.DB, d.Log)
	bookingSvc := booking.NewService(d.DB, ledgerSvc, d.Location, d.Log)
	foodSvc := food.NewService(d.DB, ledgerSvc, d.Notifier, d.Log)
	reportSvc := report.NewService(d.DB, d.Location)
	if d.Now != nil {
		ledgerSvc.SetClock(d.Now)
		bookingSvc.SetClock(d.Now)
		foodSvc.SetClock(d.Now)
		reportSvc.SetClock(d.Now)
	}

	authHandler := auth.NewHandler(auth.NewService(d.DB, d.JWT, d.Log))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "kitchen_displays": d.Hub.Count()})
	})

	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(d.JWT, repository.NewUserRepository(d.DB)))
	{
		authHandler.RegisterRoutes(protected)
		room.NewHandler(room.NewService(d.DB, d.Log)).RegisterRoutes(protected)
		customer.NewHandler(customer.NewService(d.DB)).RegisterRoutes(protected)
		booking.NewHandler(bookingSvc).RegisterRoutes(protected)
		ledger.NewHandler(ledgerSvc).RegisterRoutes(protected)
		food.NewHandler(foodSvc).RegisterRoutes(protected)
		report.NewHandler(reportSvc).RegisterRoutes(protected)
		kitchen.NewHandler(d.Hub, d.Log).RegisterRoutes(protected)
	}
	return r
}
