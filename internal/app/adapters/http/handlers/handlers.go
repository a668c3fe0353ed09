package handlers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"io"
	"log/slog"
	"net/http"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

// maxUpdateSize - апдейт Bot API занимает единицы килобайт, всё крупнее - мусор.
const maxUpdateSize = 1 << 20

type Handlers struct {
	log  logger.Logger
	sink ports.UpdateSinkPort
}

func New(log logger.Logger, sink ports.UpdateSinkPort) *Handlers {
	return &Handlers{
		log:  log,
		sink: sink,
	}
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// WebhookHandler принимает апдейт и сразу отвечает 200: обработка идёт в пуле диспетчера.
// При перегрузке отвечает 503, и Telegram доставит апдейт повторно.
func (h *Handlers) WebhookHandler(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUpdateSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		h.log.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if err := h.sink.HandleRaw(raw); err != nil {
		if errors.Is(err, ports.ErrSinkBusy) {
			h.log.Warn("Webhook update deferred", slog.String("error", err.Error()))
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		h.log.Warn("Rejected webhook update", slog.String("error", err.Error()))
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Status(http.StatusOK)
}
