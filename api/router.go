// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"bitwise74/media-api/db"
	"bitwise74/media-api/internal/fetcher"
	"bitwise74/media-api/internal/service"
	"bitwise74/media-api/internal/store"
	"bitwise74/media-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

type API struct {
	DB         *gorm.DB
	Router     *gin.Engine
	Downloader *service.Downloader
	Cleaner    *service.ExpiryCleanup
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}
	a.DB = db

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	recordStore := store.NewDownloads(db)

	a.Downloader = service.NewDownloader(
		recordStore,
		fetcher.NewYTDLP(
			viper.GetString("downloads.dir"),
			viper.GetInt64("downloads.max_size"),
			viper.GetInt("fetch.retries"),
		),
	)

	a.Cleaner = service.NewExpiryCleanup(
		recordStore,
		time.Duration(viper.GetInt("cleaner.interval"))*time.Second,
	)

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat			-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	downloads := main.Group("/downloads")
	{
		// POST /api/downloads			-> Fetches a URL and logs it in the history
		downloads.POST("", middleware.BodySizeLimiter(1<<20), a.DownloadCreate)

		// GET /api/downloads			-> Returns the download history
		downloads.GET("", cacheFor(10), a.DownloadList)

		// GET /api/downloads/:id		-> Returns a single history record
		downloads.GET("/:id", a.DownloadFetch)

		// GET /api/downloads/:id/file		-> Serves the downloaded file
		downloads.GET("/:id/file", a.DownloadServe)

		// POST /api/downloads/:id/redownload	-> Fetches fresh bytes for an old record
		downloads.POST("/:id/redownload", a.DownloadRedownload)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
