package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avern/runyard/internal/auth"
	"github.com/avern/runyard/internal/runner"
	"github.com/avern/runyard/internal/sandbox"
	"github.com/avern/runyard/internal/vault"
)

// CodeRunner is the execution dependency; *runner.Runner satisfies it.
type CodeRunner interface {
	Run(ctx context.Context, req runner.Request) (*sandbox.Result, error)
}

type Handler struct {
	runner  CodeRunner
	auth    *auth.Service
	vault   *vault.Service
	started time.Time
}

func NewHandler(r CodeRunner, a *auth.Service, v *vault.Service) *Handler {
	return &Handler{runner: r, auth: a, vault: v, started: time.Now()}
}

// Health reports liveness and uptime. Also serves /alive.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
