package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/middleware"
	"github.com/swasthya/medrec-api/pkg/metrics"
)

// Handler mounts a route block on the API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware

	authH      Handler
	patientH   Handler
	doctorH    Handler
	hospitalH  Handler
	externH    Handler
	chatbotH   Handler
	healthTipH Handler
	uploadH    Handler
	healthH    Handler
}

type Config struct {
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	patientH Handler,
	doctorH Handler,
	hospitalH Handler,
	externH Handler,
	chatbotH Handler,
	healthTipH Handler,
	uploadH Handler,
	healthH *handler.HealthHandler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := metrics.NewHTTPMetrics(config.MetricsPrefix)
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(config.CORSConfig),
		middleware.Metrics(httpMetrics),
	)

	return &Router{
		engine:     engine,
		auth:       auth,
		authH:      authH,
		patientH:   patientH,
		doctorH:    doctorH,
		hospitalH:  hospitalH,
		externH:    externH,
		chatbotH:   chatbotH,
		healthTipH: healthTipH,
		uploadH:    uploadH,
		healthH:    healthH,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	// Public routes: signin/signup, the chat-engine webhook and the tip feed.
	r.healthH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)
	r.chatbotH.RegisterRoutes(api)
	r.healthTipH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.patientH.RegisterRoutes(protected)
	r.doctorH.RegisterRoutes(protected)
	r.hospitalH.RegisterRoutes(protected)
	r.externH.RegisterRoutes(protected)
	r.uploadH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
