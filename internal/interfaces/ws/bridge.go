// Package ws bridges the daemon and the wallet client over a websocket. The
// client connects to the bridge, pushes its events and answers the calls
// made through Client.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/metwallet/walletd/internal/core/application/store"
	log "github.com/sirupsen/logrus"
)

const (
	// ConnectionKey is the connection whose status is reported to the store
	// when the client connects or drops.
	ConnectionKey = "client"

	DefaultRequestTimeout = 15 * time.Second

	writeTimeout = 5 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = (pongTimeout * 9) / 10
)

// Dispatcher is the store the bridge forwards the client events to.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev store.Event) error
}

// HandlerFunc serves a request made by the client. The returned value is
// encoded as the response payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (interface{}, error)

type Bridge struct {
	dispatcher Dispatcher
	upgrader   websocket.Upgrader
	timeout    time.Duration

	handlersLock sync.RWMutex
	handlers     map[string]HandlerFunc

	lock    sync.RWMutex
	conn    *connection
	pending map[string]chan message
	closed  bool

	readyChan chan struct{}
	readyOnce sync.Once
	errChan   chan error
}

type connection struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex
	quitChan chan struct{}
}

func (c *connection) write(msg message) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, buf)
}

func (c *connection) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteControl(
		websocket.PingMessage, nil, time.Now().Add(writeTimeout),
	)
}

// NewBridge returns a bridge forwarding client events to dispatcher.
// Requests made by the client are served within timeout.
func NewBridge(dispatcher Dispatcher, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Bridge{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		timeout:   timeout,
		handlers:  make(map[string]HandlerFunc),
		pending:   make(map[string]chan message),
		readyChan: make(chan struct{}),
		errChan:   make(chan error, 1),
	}
}

// Ready is closed once the client connected for the first time.
func (b *Bridge) Ready() <-chan struct{} {
	return b.readyChan
}

// Err receives the first event the store refused to apply. The state can
// no longer be trusted at that point.
func (b *Bridge) Err() <-chan error {
	return b.errChan
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects. A new connection replaces the previous one.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("failed to upgrade client connection")
		return
	}

	conn := &connection{ws: ws, quitChan: make(chan struct{})}
	if !b.setConnection(conn) {
		ws.Close()
		return
	}
	log.Infof("wallet client connected from %s", r.RemoteAddr)
	b.dispatchConnection(true)
	b.readyOnce.Do(func() { close(b.readyChan) })

	go b.keepAlive(conn)
	b.listen(conn)
}

// Handle registers the handler serving the client requests for method.
func (b *Bridge) Handle(method string, handler HandlerFunc) {
	b.handlersLock.Lock()
	defer b.handlersLock.Unlock()

	b.handlers[method] = handler
}

// Notify pushes an event to the client, if connected.
func (b *Bridge) Notify(event string, payload interface{}) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}

	b.lock.RLock()
	conn := b.conn
	b.lock.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}
	return conn.write(message{Type: messageEvent, Event: event, Payload: buf})
}

// Call sends a request to the client and decodes its response into result,
// if not nil.
func (b *Bridge) Call(
	ctx context.Context, method string, params, result interface{},
) (err error) {
	start := time.Now()
	defer func() {
		clientCalls.WithLabelValues(method, resultOf(err)).Inc()
		clientCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}

	id := uuid.New().String()
	resChan := make(chan message, 1)

	b.lock.Lock()
	if b.closed {
		b.lock.Unlock()
		return ErrBridgeClosed
	}
	conn := b.conn
	if conn == nil {
		b.lock.Unlock()
		return ErrNotConnected
	}
	b.pending[id] = resChan
	b.lock.Unlock()

	defer b.removePending(id)

	if err := conn.write(message{
		Type:    messageRequest,
		ID:      id,
		Method:  method,
		Payload: payload,
	}); err != nil {
		return fmt.Errorf("failed to send %s request: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res, ok := <-resChan:
		if !ok {
			return ErrDisconnected
		}
		if res.Error != "" {
			return &RemoteError{Method: method, Message: res.Error}
		}
		if result == nil || len(res.Payload) == 0 {
			return nil
		}
		if err := json.Unmarshal(res.Payload, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

// Close drops the current connection and fails every pending call.
func (b *Bridge) Close() error {
	b.lock.Lock()
	if b.closed {
		b.lock.Unlock()
		return nil
	}
	b.closed = true
	conn := b.conn
	b.lock.Unlock()

	if conn == nil {
		return nil
	}
	conn.writeMu.Lock()
	conn.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout),
	)
	conn.writeMu.Unlock()
	return conn.ws.Close()
}

func (b *Bridge) setConnection(conn *connection) bool {
	b.lock.Lock()
	if b.closed {
		b.lock.Unlock()
		return false
	}
	prev := b.conn
	pending := b.pending
	b.conn = conn
	b.pending = make(map[string]chan message)
	b.lock.Unlock()

	if prev != nil {
		log.Warn("wallet client reconnected, dropping previous connection")
		prev.ws.Close()
	}
	for _, resChan := range pending {
		close(resChan)
	}
	return true
}

func (b *Bridge) listen(conn *connection) {
	defer b.disconnect(conn)

	conn.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, buf, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
			) {
				log.WithError(err).Warn("wallet client connection dropped")
			}
			return
		}

		var msg message
		if err := json.Unmarshal(buf, &msg); err != nil {
			log.WithError(err).Warn("skipping malformed client message")
			continue
		}

		switch msg.Type {
		case messageEvent:
			b.handleEvent(msg)
		case messageResponse:
			b.handleResponse(msg)
		case messageRequest:
			go b.handleRequest(conn, msg)
		default:
			log.Warnf("skipping client message of unknown type %q", msg.Type)
		}
	}
}

func (b *Bridge) handleEvent(msg message) {
	ev, err := store.ParseEvent(msg.Event, msg.Payload)
	if err != nil {
		clientEvents.WithLabelValues(msg.Event, resultRejected).Inc()
		log.WithError(err).Warn("skipping client event")
		return
	}

	err = b.dispatcher.Dispatch(context.Background(), ev)
	clientEvents.WithLabelValues(msg.Event, resultOf(err)).Inc()
	if err != nil {
		log.WithError(err).Errorf("failed to apply event %s", msg.Event)
		select {
		case b.errChan <- fmt.Errorf("failed to apply event %s: %w", msg.Event, err):
		default:
		}
	}
}

func (b *Bridge) handleRequest(conn *connection, msg message) {
	b.handlersLock.RLock()
	handler, ok := b.handlers[msg.Method]
	b.handlersLock.RUnlock()

	res := message{Type: messageResponse, ID: msg.ID}
	if !ok {
		servedRequests.WithLabelValues(msg.Method, resultRejected).Inc()
		res.Error = fmt.Sprintf("unknown method %s", msg.Method)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		result, err := handler(ctx, msg.Payload)
		cancel()
		servedRequests.WithLabelValues(msg.Method, resultOf(err)).Inc()

		if err != nil {
			log.WithError(err).Debugf("client request %s failed", msg.Method)
			res.Error = err.Error()
		} else if result != nil {
			buf, err := json.Marshal(result)
			if err != nil {
				res.Error = fmt.Sprintf("failed to encode result: %s", err)
			} else {
				res.Payload = buf
			}
		}
	}

	if err := conn.write(res); err != nil {
		log.WithError(err).Warnf("failed to answer client request %s", msg.Method)
	}
}

func (b *Bridge) handleResponse(msg message) {
	b.lock.Lock()
	resChan, ok := b.pending[msg.ID]
	delete(b.pending, msg.ID)
	b.lock.Unlock()

	if !ok {
		log.Debugf("skipping response to unknown request %s", msg.ID)
		return
	}
	resChan <- msg
}

func (b *Bridge) removePending(id string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	delete(b.pending, id)
}

func (b *Bridge) keepAlive(conn *connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-conn.quitChan:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				log.WithError(err).Debug("failed to ping wallet client")
				return
			}
		}
	}
}

func (b *Bridge) disconnect(conn *connection) {
	close(conn.quitChan)
	conn.ws.Close()

	b.lock.Lock()
	if b.conn != conn {
		b.lock.Unlock()
		return
	}
	b.conn = nil
	pending := b.pending
	b.pending = make(map[string]chan message)
	b.lock.Unlock()

	for _, resChan := range pending {
		close(resChan)
	}
	log.Info("wallet client disconnected")
	b.dispatchConnection(false)
}

func (b *Bridge) dispatchConnection(connected bool) {
	if connected {
		clientConnected.Set(1)
	} else {
		clientConnected.Set(0)
	}
	if err := b.dispatcher.Dispatch(context.Background(), store.ConnectionStatusChanged{
		Key:       ConnectionKey,
		Connected: connected,
	}); err != nil {
		log.WithError(err).Warn("failed to dispatch client connection status")
	}
}
