package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dreamycv/internal/kvstore"
	"dreamycv/internal/syncfeed"
)

// WsHandler 把共享存储的变更通知转发给打开的视图。
// 每个连接代表一个视图；该视图自己的写入不会被回送。
// 这是尽力而为的对账通道，掉线的视图靠重获焦点时的 Resync 补课。
type WsHandler struct {
	broadcaster    *syncfeed.Broadcaster
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造变更通知处理器。
func NewWsHandler(broadcaster *syncfeed.Broadcaster, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		broadcaster:    broadcaster,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(h.allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

// HandleConnection 负责升级连接并启动读写循环。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	viewID := c.Query("view")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
		slog.String("view_id", viewID),
	)

	errCh := make(chan error, 2)

	go h.readLoop(ctx, conn, errCh, cancel)
	go h.forwardLoop(ctx, conn, viewID, errCh, cancel, log)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Info("change feed closed", slog.Any("error", err))
		} else {
			log.Info("change feed closed")
		}
	}
}

// readLoop 只为感知客户端断开，连接上没有需要处理的入站消息。
func (h *WsHandler) readLoop(ctx context.Context, conn *websocket.Conn, errCh chan<- error, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			errCh <- fmt.Errorf("read message: %w", err)
			cancel()
			return
		}
	}
}

func (h *WsHandler) forwardLoop(
	ctx context.Context,
	conn *websocket.Conn,
	viewID string,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	changes, err := h.broadcaster.Stream(ctx, viewID)
	if err != nil {
		errCh <- fmt.Errorf("subscribe change feed: %w", err)
		cancel()
		return
	}

	log.Info("subscribed to change feed")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				errCh <- fmt.Errorf("change feed channel closed")
				cancel()
				return
			}

			if err := h.writeChange(conn, change); err != nil {
				errCh <- fmt.Errorf("write message: %w", err)
				cancel()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				errCh <- fmt.Errorf("write ping: %w", err)
				cancel()
				return
			}
		}
	}
}

func (h *WsHandler) writeChange(conn *websocket.Conn, change kvstore.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
