package main

import (
	"context"
	"embed"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/inventory/dashboard"
	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/inventory/items"
	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/inventory/loans"
	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/inventory/reports"
	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/platform/auth"
	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/platform/db"
	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/users"
)

//go:embed docs/openapi.json
var docsFS embed.FS

func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		log.Fatal("config mode must be dev or release")
	}
	if cfg.Auth.Secret == "" {
		log.Fatal("auth.secret is required")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS for the local frontend only
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// API docs
	r.GET("/openapi.json", func(c *gin.Context) {
		c.FileFromFS("docs/openapi.json", http.FS(docsFS))
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))

	secret := []byte(cfg.Auth.Secret)

	authSvc := auth.NewService(conn, secret)
	itemSvc := items.NewService(items.NewStore(conn))
	loanSvc := loans.NewService(loans.NewStore(conn))
	userSvc := users.NewService(users.NewStore(conn))
	dashSvc := dashboard.NewService(conn)
	reportSvc := reports.NewService(conn)

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, authSvc)

	protected := api.Group("", auth.RequireAuth(secret))
	items.RegisterRoutes(protected, itemSvc)
	loans.RegisterRoutes(protected, loanSvc)
	dashboard.RegisterRoutes(protected, dashSvc)

	admin := protected.Group("", auth.RequireAdmin())
	auth.RegisterAdminRoutes(admin, authSvc)
	loans.RegisterAdminRoutes(admin, loanSvc)
	users.RegisterRoutes(admin, userSvc)
	reports.RegisterRoutes(admin, reportSvc)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			log.Printf("[INFO] listening on https://%s", cfg.Addr)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			log.Printf("[INFO] listening on http://%s", cfg.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
