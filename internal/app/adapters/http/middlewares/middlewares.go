package middlewares

import (
	"crypto/subtle"
	"github.com/gin-gonic/gin"
	"net/http"
)

const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Middlewares struct{}

func New() *Middlewares {
	return &Middlewares{}
}

// WebhookSecret пропускает только запросы с секретом, выданным Telegram при setWebhook.
func (m *Middlewares) WebhookSecret(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(SecretHeader)
		if expected == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
