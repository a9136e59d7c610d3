package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avern/runyard/internal/auth"
)

func RegisterRoutes(r *gin.Engine, h *Handler, authSvc *auth.Service) {
	r.POST("/run", h.Run)
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	r.GET("/health", h.Health)
	r.GET("/alive", h.Health)
	r.GET("/ping", h.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/", authSvc.Middleware())
	{
		authed.POST("/upload", h.Upload)
		authed.GET("/files", h.Files)
		authed.GET("/me", h.Me)
		authed.PUT("/files/:id/rename", h.Rename)
		authed.GET("/download/:id", h.Download)
	}
}
