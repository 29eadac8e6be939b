package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/auth"
	"github.com/anna-sampada/spoilage-backend/internal/chat"
	"github.com/anna-sampada/spoilage-backend/internal/metrics"
	"github.com/anna-sampada/spoilage-backend/internal/ngo"
	"github.com/anna-sampada/spoilage-backend/internal/predict"
)

// Server wires the HTTP surface. Any service may be nil; its routes then
// answer 503 instead of panicking.
type Server struct {
	predictions *predict.Service
	chat        *chat.Service
	auth        *auth.Service
	locator     *ngo.Locator
	notifier    *ngo.Notifier
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

type Options struct {
	Predictions *predict.Service
	Chat        *chat.Service
	Auth        *auth.Service
	Locator     *ngo.Locator
	Notifier    *ngo.Notifier
	Metrics     *metrics.Metrics
}

func New(logger *slog.Logger, opts Options) *Server {
	return &Server{
		predictions: opts.Predictions,
		chat:        opts.Chat,
		auth:        opts.Auth,
		locator:     opts.Locator,
		notifier:    opts.Notifier,
		metrics:     opts.Metrics,
		logger:      logger,
	}
}

// Router builds the gin engine with the full route table.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(AccessLog(s.logger))
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	api := r.Group("/api")
	{
		api.POST("/predict", s.handlePredict(constants.FoodRice))
		api.POST("/predict_milk", s.handlePredict(constants.FoodMilk))
		api.POST("/predict/paneer", s.handlePredict(constants.FoodPaneer))
		api.POST("/predict_dal", s.handlePredict(constants.FoodDal))
		api.POST("/predict_roti", s.handlePredict(constants.FoodRoti))

		api.POST("/chat", s.handleChat)
		api.POST("/signup", s.handleSignup)
		api.POST("/login", s.handleLogin)
		api.GET("/get-ngos", s.handleGetNGOs)
		api.POST("/notify-ngo", s.handleNotifyNGO)
	}

	r.GET("/healthz", s.handleHealthz)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	models := gin.H{}
	if s.predictions != nil {
		for food, ok := range s.predictions.Availability() {
			models[string(food)] = ok
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"models": models,
	})
}
