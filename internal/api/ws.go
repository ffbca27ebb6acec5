package api

import (
	"net/http"

	"github.com/fiucpc/arena/internal/pubsub"
	"github.com/fiucpc/arena/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleLeaderboardWs streams snapshot publication notices for one period
// kind. A new client immediately receives the latest notice, so it knows
// which version to fetch without waiting for the next publish.
func (h *Handler) handleLeaderboardWs(c *gin.Context) {
	kind, err := periodKind(c.Query("period"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, "", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	msgChan, unsubscribe := pubsub.GetBroker().Subscribe(string(kind))

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for msg := range msgChan {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnf("error writing to websocket: %v", err)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.S().Infof("websocket unexpected close error: %v", err)
			}
			break
		}
	}

	// Closing the subscription drains the writer even when the board is
	// quiet; waiting first would park the handler until the next publish.
	unsubscribe()
	<-clientClosed

	zap.S().Debugf("leaderboard websocket closed for %s", kind)
}
