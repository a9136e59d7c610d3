package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avern/runyard/internal/runner"
	"github.com/avern/runyard/internal/sandbox"
)

// Run executes a code snippet on the sandbox and returns the result verbatim.
//
// Request body:
//
//	{
//	  "language": "python",
//	  "version":  "3.10.0",      // optional; overrides the pinned default
//	  "code":     "print(1+1)"
//	}
func (h *Handler) Run(c *gin.Context) {
	var body struct {
		Language string `json:"language"`
		Version  string `json:"version"`
		Code     string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Language == "" || body.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language and code are required"})
		return
	}

	res, err := h.runner.Run(c.Request.Context(), runner.Request{
		Language: body.Language,
		Version:  body.Version,
		Code:     body.Code,
	})
	if err != nil {
		var remote *sandbox.RemoteError
		switch {
		case errors.Is(err, runner.ErrUnsupportedLanguage):
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("No default version for %s", body.Language)})
		case errors.Is(err, sandbox.ErrUnreachable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "sandbox unreachable"})
		case errors.As(err, &remote):
			// The sandbox handled the request and reported failure; surface
			// its own message rather than swallowing it.
			c.JSON(http.StatusBadGateway, gin.H{"error": remote.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "execution failed"})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}
