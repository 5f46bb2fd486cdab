package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"idea-engine/config"
	"idea-engine/providers/analysis"
	"idea-engine/services"
)

func setupTopicRoutes(rg *gin.RouterGroup, topics *services.TopicService, log *zap.Logger) {
	rg.GET("/topics", func(c *gin.Context) {
		filter, err := services.NewTopicFilter(c.Query("category"), c.Query("search"), c.Query("timeframe"), c.Query("deepSearch"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid timeframe: %s", c.Query("timeframe"))})
			return
		}
		list, err := topics.List(c.Request.Context(), filter)
		if err != nil {
			log.Error("Topic query failed", zap.Error(err))
			if errors.Is(err, services.ErrCorruptTopic) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse topic data"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch topics: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	// Muss vor /topics/:id registriert werden.
	rg.GET("/topics/trending", func(c *gin.Context) {
		limit, err := services.ParseLimit(c.Query("limit"), services.DefaultTrendingLimit, services.MaxTrendingLimit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		list, err := topics.Trending(c.Request.Context(), limit)
		if err != nil {
			log.Error("Trending query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trending topics"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	rg.GET("/topics/:id", func(c *gin.Context) {
		raw := c.Param("id")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic ID"})
			return
		}
		detail, err := topics.Get(c.Request.Context(), uint(id))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTopicNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Topic with ID %d not found", id)})
			case errors.Is(err, services.ErrCorruptTopic):
				log.Error("Topic data is corrupt", zap.Uint64("id", id), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse topic data"})
			default:
				log.Error("Topic lookup failed", zap.Uint64("id", id), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch topic"})
			}
			return
		}
		c.JSON(http.StatusOK, detail)
	})
}

func setupDashboardRoutes(rg *gin.RouterGroup, topics *services.TopicService, log *zap.Logger) {
	rg.GET("/dashboard/stats", func(c *gin.Context) {
		stats, err := topics.Stats(c.Request.Context())
		if err != nil {
			log.Error("Dashboard stats failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	rg.GET("/categories", func(c *gin.Context) {
		categories, err := topics.Categories(c.Request.Context())
		if err != nil {
			log.Error("Category query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	rg.GET("/market-analysis", func(c *gin.Context) {
		analysis, err := topics.MarketAnalysis(c.Request.Context())
		if err != nil {
			log.Error("Market analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch market analysis"})
			return
		}
		c.JSON(http.StatusOK, analysis)
	})

	rg.GET("/opportunities", func(c *gin.Context) {
		minScore, err := services.ParseMinScore(c.Query("minScore"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minScore must be a number"})
			return
		}
		list, err := topics.Opportunities(c.Request.Context(), minScore, c.Query("category"))
		if err != nil {
			log.Error("Opportunity query failed", zap.Float64("min_score", minScore), zap.Error(err))
			if errors.Is(err, services.ErrCorruptTopic) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse topic data"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opportunities: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	})
}

func setupIdeaRoutes(rg *gin.RouterGroup, ideas *services.IdeaService) {
	rg.POST("/ideas/submit", func(c *gin.Context) {
		var req services.IdeaSubmission
		if err := c.ShouldBindJSON(&req); err != nil {
			var verrs validator.ValidationErrors
			switch {
			case errors.Is(err, io.EOF):
				// leerer Body wird wie fehlende Pflichtfelder behandelt
			case errors.As(err, &verrs) && len(verrs) > 0:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationMessage(verrs[0])})
				return
			default:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
				return
			}
		}

		id, err := ideas.Submit(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrMissingIdeaFields) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title, description, and category are required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit idea: " + err.Error()})
			return
		}
		ideasSubmittedCounter.Inc()
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Idea submitted successfully!", "id": id})
	})
}

func validationMessage(fe validator.FieldError) string {
	if fe.Field() == "EstimatedBudget" && fe.Tag() == "gte" {
		return "estimated_budget must not be negative"
	}
	return fmt.Sprintf("Invalid value for %s", fe.Field())
}

func setupAnalysisProxyRoutes(rg *gin.RouterGroup, client *analysis.Client, log *zap.Logger) {
	rg.Any("/python/*path", func(c *gin.Context) {
		method := c.Request.Method
		switch method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			analysisProxyCounter.WithLabelValues(method, strconv.Itoa(http.StatusMethodNotAllowed)).Inc()
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
			return
		}

		var body []byte
		if method == http.MethodPost || method == http.MethodPut {
			data, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
			body = data
		}

		resp, err := client.Forward(c.Request.Context(), method, c.Request.URL.Path, c.Request.URL.RawQuery, body, c.ContentType())
		if err != nil {
			log.Error("Analysis service unreachable", zap.String("path", c.Request.URL.Path), zap.Error(err))
			analysisProxyCounter.WithLabelValues(method, strconv.Itoa(http.StatusInternalServerError)).Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect to Python API", "message": err.Error()})
			return
		}
		analysisProxyCounter.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(resp.StatusCode, contentType, resp.Body)
	})
}

func setupHealthRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	router.GET("/api/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is working correctly!"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "ok"})
	})
}

func setupFrontendRoutes(router *gin.Engine, cfg *config.Config, log *zap.Logger) {
	if !cfg.IsProduction() {
		router.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, "API is running. Frontend is available at %s", cfg.FrontendURL)
		})
	}

	root, err := filepath.Abs(cfg.StaticDir)
	if err != nil {
		log.Error("Failed to resolve static directory", zap.String("static_dir", cfg.StaticDir), zap.Error(err))
		root = cfg.StaticDir
	}
	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || !cfg.IsProduction() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		file := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(root, "index.html"))
	})
}
