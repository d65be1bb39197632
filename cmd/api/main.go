package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"textbook/internal/auth"
	"textbook/internal/config"
	"textbook/internal/httpmiddleware"
	"textbook/internal/metrics"
	"textbook/internal/queue"
	"textbook/internal/reconcile"
	"textbook/internal/request"
	"textbook/internal/settings"
	"textbook/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "textbook:receipts")
	}

	var syncLog reconcile.Log
	if redisClient.Healthy(context.Background()) {
		syncLog = reconcile.NewRedisLog(redisClient.Client, "textbook:synclog")
	} else {
		log.Println("warning: redis not reachable, sync log kept in memory")
		syncLog = reconcile.NewMemoryLog()
	}

	repo := request.NewRepository(db.Client)
	requests := request.NewService(repo, cfg.PageSize)
	reconciler := reconcile.NewReconciler(requests, syncLog)
	settingsRepo := settings.NewRepository(db.Client)

	metrics.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/admin/unlock", func(c *gin.Context) {
		var req struct {
			Passcode string `json:"passcode" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Passcode != cfg.AdminPasscode {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong passcode"})
			return
		}
		token, err := auth.Issue("admin", "admin", cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AdminTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"accessToken": token.Value,
			"expiresAt":   token.ExpiresAt.Unix(),
		})
	})

	r.POST("/v1/requests", func(c *gin.Context) {
		var req struct {
			StudentName   string `json:"studentName" binding:"required"`
			TeacherName   string `json:"teacherName"`
			RequestDate   string `json:"requestDate"`
			BookName      string `json:"bookName" binding:"required"`
			BookDetail    string `json:"bookDetail"`
			Price         int64  `json:"price" binding:"min=0"`
			BankName      string `json:"bankName"`
			AccountNumber string `json:"accountNumber"`
			AccountHolder string `json:"accountHolder"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		created, err := requests.Create(c.Request.Context(), request.Request{
			StudentName:   req.StudentName,
			TeacherName:   req.TeacherName,
			RequestDate:   req.RequestDate,
			BookName:      req.BookName,
			BookDetail:    req.BookDetail,
			Price:         req.Price,
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountHolder: req.AccountHolder,
		})
		if err != nil {
			if errors.Is(err, request.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "request already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		metrics.RequestsCreatedTotal.Inc()

		if err := q.Publish(c.Request.Context(), queue.Message{Type: "receipt", Body: []byte(created.ID)}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}

		c.JSON(http.StatusCreated, created)
	})

	r.GET("/v1/requests", func(c *gin.Context) {
		filter := request.Filter(c.DefaultQuery("filter", string(request.FilterIncomplete)))
		if filter != request.FilterIncomplete && filter != request.FilterComplete {
			c.JSON(http.StatusBadRequest, gin.H{"error": "filter must be incomplete or complete"})
			return
		}
		page, pageSize := 1, cfg.PageSize
		if v := c.Query("page"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				page = parsed
			}
		}
		if v := c.Query("page_size"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				pageSize = parsed
			}
		}
		result, err := requests.ListFiltered(c.Request.Context(), filter, page, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/v1/requests/counts", func(c *gin.Context) {
		counts, err := requests.CountByStatus(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, counts)
	})

	r.POST("/v1/sync", func(c *gin.Context) {
		var in reconcile.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := reconciler.Sync(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.SyncTotal.WithLabelValues(string(result.Outcome)).Inc()
		c.JSON(http.StatusOK, result)
	})

	r.GET("/v1/sync/log", func(c *gin.Context) {
		n := reconcile.MaxLogEntries
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				n = parsed
			}
		}
		entries, err := reconciler.RecentLog(c.Request.Context(), n)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	})

	r.GET("/v1/settings/account", func(c *gin.Context) {
		acc, err := settingsRepo.GetAccount(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, acc)
	})

	r.GET("/v1/settings/textbooks", func(c *gin.Context) {
		books, err := settingsRepo.GetTextbooks(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if books == nil {
			books = []settings.Textbook{}
		}
		c.JSON(http.StatusOK, gin.H{"textbooks": books})
	})

	admin := r.Group("/v1", auth.AdminAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	admin.PATCH("/requests/:id", func(c *gin.Context) {
		var req struct {
			StudentName   *string `json:"studentName"`
			TeacherName   *string `json:"teacherName"`
			RequestDate   *string `json:"requestDate"`
			BookName      *string `json:"bookName"`
			BookDetail    *string `json:"bookDetail"`
			Price         *int64  `json:"price"`
			BankName      *string `json:"bankName"`
			AccountNumber *string `json:"accountNumber"`
			AccountHolder *string `json:"accountHolder"`
			IsCompleted   *bool   `json:"isCompleted"`
			IsPaid        *bool   `json:"isPaid"`
			IsOrdered     *bool   `json:"isOrdered"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Price != nil && *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
			return
		}

		now := time.Now().UTC()
		upd := request.Update{
			StudentName:   req.StudentName,
			TeacherName:   req.TeacherName,
			RequestDate:   req.RequestDate,
			BookName:      req.BookName,
			BookDetail:    req.BookDetail,
			Price:         req.Price,
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountHolder: req.AccountHolder,
		}
		if req.IsCompleted != nil {
			fu := request.Mark(*req.IsCompleted, now)
			upd.Registered = &fu
		}
		if req.IsPaid != nil {
			fu := request.Mark(*req.IsPaid, now)
			upd.Paid = &fu
		}
		if req.IsOrdered != nil {
			fu := request.Mark(*req.IsOrdered, now)
			upd.Ordered = &fu
		}

		if err := requests.Update(c.Request.Context(), c.Param("id"), upd); err != nil {
			if errors.Is(err, request.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		updated, err := requests.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	admin.DELETE("/requests/:id", func(c *gin.Context) {
		if err := requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, request.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.RequestsDeletedTotal.Inc()
		c.Status(http.StatusNoContent)
	})

	admin.POST("/requests/:id/receipt", func(c *gin.Context) {
		id := c.Param("id")
		if _, err := requests.Get(c.Request.Context(), id); err != nil {
			if errors.Is(err, request.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := q.Publish(c.Request.Context(), queue.Message{Type: "receipt", Body: []byte(id)}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "queued"})
	})

	admin.PUT("/settings/account", func(c *gin.Context) {
		var acc settings.Account
		if err := c.ShouldBindJSON(&acc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := settingsRepo.SaveAccount(c.Request.Context(), acc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, acc)
	})

	admin.PUT("/settings/textbooks", func(c *gin.Context) {
		var body struct {
			Textbooks []settings.Textbook `json:"textbooks" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := settingsRepo.SaveTextbooks(c.Request.Context(), body.Textbooks); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"textbooks": body.Textbooks})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
