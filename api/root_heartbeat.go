package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat replies with an empty 200 so load balancers and the frontend can
// tell the server is alive
func (a *API) Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
