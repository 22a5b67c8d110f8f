package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"undercover/internal/app"
	"undercover/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256

	// Time allowed for one lobby operation triggered by a message
	opTimeout = 5 * time.Second

	// Close reason sent to kicked or pruned players
	closeReasonRemoved = "removed from lobby"
)

// Client is one player's WebSocket connection to a lobby feed
type Client struct {
	id       string
	conn     *websocket.Conn
	manager  *app.Manager
	feed     *app.Feed
	code     string
	playerID string
	send     chan []byte
	events   chan *domain.LobbyEvent
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, manager *app.Manager, feed *app.Feed, code, playerID string, logger *slog.Logger) *Client {
	return &Client{
		id:       uuid.NewString(),
		conn:     conn,
		manager:  manager,
		feed:     feed,
		code:     code,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		events:   make(chan *domain.LobbyEvent, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With("code", code, "playerID", playerID),
	}
}

// ID implements app.Subscriber. A player may hold several connections.
func (c *Client) ID() string {
	return c.id
}

// Send implements app.Subscriber. It never blocks the feed.
func (c *Client) Send(event *domain.LobbyEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.events <- event:
	default:
		c.logger.Warn("event buffer full, event dropped", "type", event.Type)
	}
	return nil
}

// Close shuts the connection down once
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// closeRemoved tells the peer it is no longer in the lobby and drops the connection
func (c *Client) closeRemoved() {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, closeReasonRemoved)
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.Close()
}

func hasPlayer(view domain.LobbyView, playerID string) bool {
	for _, p := range view.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Run subscribes to the feed and starts the client's pumps
func (c *Client) Run() {
	c.feed.Subscribe(c.code, c)

	go c.eventPump()
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.feed.Unsubscribe(c.code, c.id)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// eventPump turns feed events into messages. Round changes also carry a
// fresh private state, since roles and words may have been dealt.
func (c *Client) eventPump() {
	for {
		select {
		case <-c.done:
			return
		case event := <-c.events:
			if !hasPlayer(event.Lobby, c.playerID) {
				c.logger.Info("player left lobby, closing connection", "event", event.Type)
				c.closeRemoved()
				return
			}

			c.write(NewServerMessage(MsgLobbyUpdate, &LobbyUpdatePayload{
				Event: event.Type,
				Lobby: event.Lobby,
			}))

			switch event.Type {
			case domain.EventRoundStarted, domain.EventPlayerEliminated,
				domain.EventGuessSubmitted, domain.EventLobbyReset:
				c.sendState()
			}
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// write queues a message for the write pump
func (c *Client) write(msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message", "type", msg.Type, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, message dropped", "type", msg.Type)
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var err error
	switch msg.Type {
	case MsgPing:
		c.write(NewServerMessage(MsgPong, nil))
	case MsgHeartbeat:
		err = c.manager.Heartbeat(ctx, c.code, c.playerID)
	case MsgGetState:
		c.sendState()
	case MsgStartGame:
		err = c.handleStartGame(ctx)
	case MsgKickPlayer:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		_, err = c.manager.KickFromLobby(ctx, c.code, c.playerID, p.TargetID)
	case MsgUpdateSettings:
		var p SettingsPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		_, err = c.manager.UpdateSettings(ctx, c.code, c.playerID, p.Settings)
	case MsgEliminate:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		_, err = c.manager.Eliminate(ctx, c.code, c.playerID, p.TargetID)
	case MsgSubmitGuess:
		var p GuessPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		var res *app.GuessResult
		res, err = c.manager.SubmitGuess(ctx, c.code, c.playerID, p.Guess)
		if err == nil {
			c.write(NewServerMessage(MsgGuessResult, &GuessResultPayload{Correct: res.Correct}))
		}
	case MsgResetLobby:
		_, err = c.manager.ResetLobby(ctx, c.code, c.playerID)
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
		return
	}

	if err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handleStartGame starts the round if this client holds host privileges
func (c *Client) handleStartGame(ctx context.Context) error {
	lobby, err := c.manager.GetLobby(ctx, c.code)
	if err != nil {
		return err
	}
	if !lobby.IsHost(c.playerID) {
		return domain.ErrNotHost
	}
	_, err = c.manager.StartGame(ctx, c.code)
	return err
}

func (c *Client) decode(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || json.Unmarshal(raw, v) != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// sendConnected sends the lobby and the player's own state
func (c *Client) sendConnected(lobby *domain.Lobby, state *domain.PlayerState) {
	c.write(NewServerMessage(MsgConnected, &ConnectedPayload{
		PlayerID: c.playerID,
		Lobby:    c.manager.View(lobby),
		State:    state,
	}))
}

// sendState sends the player's private state
func (c *Client) sendState() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	state, err := c.manager.GetPlayerState(ctx, c.code, c.playerID)
	if errors.Is(err, domain.ErrNotFound) {
		c.closeRemoved()
		return
	}
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.write(NewServerMessage(MsgPlayerState, state))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.write(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
