package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sweta1G/chat-widget/internal/config"
	"github.com/Sweta1G/chat-widget/internal/transcriptlog"
	"github.com/Sweta1G/chat-widget/internal/widget"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/sarvam"
	"github.com/Sweta1G/chat-widget/pkg/voice/piper"
)

type Dependencies struct {
	Registry      *widget.Registry
	Sarvam        *sarvam.Client
	Piper         *piper.Piper // nil when no sidecar is configured
	TranscriptLog *transcriptlog.Store
	Logger        *Logger.Logger
	Configs       *config.Settings
}

func NewServerDependencies(
	registry *widget.Registry,
	sarvamClient *sarvam.Client,
	piperClient *piper.Piper,
	transcriptLog *transcriptlog.Store,
	logger *Logger.Logger,
	configs *config.Settings,
) Dependencies {
	return Dependencies{
		Registry:      registry,
		Sarvam:        sarvamClient,
		Piper:         piperClient,
		TranscriptLog: transcriptLog,
		Logger:        logger,
		Configs:       configs,
	}
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	rm := NewRoutesManager(dep)

	// widget session: the render adapter on the page talks to the core here
	r.GET("/ws", rm.handleWidgetSocket)

	// effective configuration for the embed script
	r.GET("/api/config", rm.handleConfig)

	// thin pass-through proxies that inject the server-side credential
	proxy := NewProxyHandler(dep.Configs.Sarvam, dep.Logger)
	r.POST("/api/chat", proxy.Chat)
	r.POST("/api/tts", proxy.TTS)
}

// handleConfig returns the server-level effective widget configuration so
// the embed script can render before its socket is up.
func (rm *RoutesManager) handleConfig(c *gin.Context) {
	cfg := config.Resolve(rm.deps.Configs.Widget)
	c.JSON(http.StatusOK, gin.H{
		"position": cfg.Position,
		"theme": gin.H{
			"primaryColor": cfg.Theme.PrimaryColor,
			"fontFamily":   cfg.Theme.FontFamily,
		},
		"agent": gin.H{
			"name":   cfg.Agent.Name,
			"avatar": cfg.Agent.AvatarURL,
		},
		"enableVoice":     cfg.EnableVoice,
		"defaultLanguage": cfg.DefaultLanguage,
	})
}
