package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brittlebones-backend/internal/delivery/http/response"
	"brittlebones-backend/internal/usecase"
)

const rootMessage = "Server is running!"

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
}

// Root godoc
// @Summary      Liveness
// @Produce      plain
// @Success      200  {string}  string  "Server is running!"
// @Router       / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, rootMessage)
}

// Health godoc
// @Summary      Dependency status
// @Description  Reports whether mail, PayFast and Redis are configured and reachable.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, "System operational", h.healthUC.Check(c.Request.Context()))
}
