package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"asistedocente/internal/attendance"
	"asistedocente/internal/auth"
	"asistedocente/internal/config"
	"asistedocente/internal/export"
	"asistedocente/internal/group"
	"asistedocente/internal/handler"
	"asistedocente/internal/httpmiddleware"
	"asistedocente/internal/photostore"
	"asistedocente/internal/queue"
	"asistedocente/internal/report"
	"asistedocente/internal/store"
	"asistedocente/internal/student"
	"asistedocente/internal/teacher"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	photos, err := photostore.New(cfg.PhotoDir)
	if err != nil {
		return err
	}

	teachers := teacher.NewService(st)
	groups := group.NewService(st)
	students := student.NewService(st)
	att := attendance.NewService(st)
	reports := report.NewService(st)

	q := queue.NewInMemory(cfg.ExportQueueSize)
	exports, err := export.NewService(st, reports, cfg.ReportsDir, q)
	if err != nil {
		return err
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		if err := exports.Run(workerCtx); err != nil && err != context.Canceled {
			log.Printf("export worker stopped: %v", err)
		}
	}()

	h := handler.New(st, teachers, groups, students, att, reports, exports, photos, handler.AuthConfig{
		Issuer:     cfg.JWTIssuer,
		SigningKey: cfg.JWTSigningKey,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          24 * time.Hour,
	}))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	r.POST("/v1/auth/register", h.Register)
	r.POST("/v1/auth/login", h.Login)

	v1 := r.Group("/v1", auth.TeacherAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	v1.GET("/me", h.Me)
	v1.PUT("/me", h.UpdateMe)
	v1.POST("/me/photo", h.UploadPhoto)
	v1.DELETE("/me/photo", h.DeletePhoto)
	v1.DELETE("/me", h.DeactivateMe)

	v1.POST("/groups", h.CreateGroup)
	v1.GET("/groups", h.ListGroups)
	v1.GET("/groups/:id", h.GetGroup)
	v1.PUT("/groups/:id", h.UpdateGroup)
	v1.DELETE("/groups/:id", h.DeleteGroup)
	v1.POST("/groups/:id/deactivate", h.DeactivateGroup)
	v1.GET("/groups/:id/students", h.GroupStudents)

	v1.POST("/students", h.EnrollStudent)
	v1.GET("/students", h.ListStudents)
	v1.GET("/students/:id", h.GetStudent)
	v1.PUT("/students/:id", h.UpdateStudent)
	v1.DELETE("/students/:id", h.DeleteStudent)
	v1.POST("/students/:id/deactivate", h.DeactivateStudent)
	v1.POST("/students/:id/transfer", h.TransferStudent)
	v1.GET("/students/:id/attendance", h.StudentHistory)

	v1.GET("/groups/:id/attendance", h.DaySheet)
	v1.PUT("/groups/:id/attendance", h.SaveAttendance)
	v1.DELETE("/groups/:id/attendance", h.ClearDay)
	v1.GET("/groups/:id/attendance/dates", h.AttendanceDates)
	v1.GET("/groups/:id/attendance/records", h.DayRecords)

	v1.GET("/groups/:id/report", h.GroupReport)
	v1.GET("/students/:id/report", h.StudentPercentage)

	v1.POST("/groups/:id/export", h.ExportGroup)
	v1.POST("/students/:id/export", h.ExportStudent)
	v1.GET("/exports/:id", h.ExportJob)
	v1.GET("/exports/:id/file", h.ExportFile)

	v1.GET("/changes", h.Changes)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
