// Package server is the session router: it owns the WebSocket endpoint,
// the client and room registries, and the dispatch of decoded frames into
// the per-room goroutines. Outbound traffic flows the other way through
// the Sender interface the rooms hold.
package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hexbrawl/server/internal/auth"
	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/protocol"
	"github.com/hexbrawl/server/internal/repository"
	"github.com/hexbrawl/server/internal/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // game clients connect from anywhere; tighten in production
	},
}

// Options carries the server's collaborators. Nil stores disable
// persistence; a nil Resume disables resume tickets.
type Options struct {
	Catalog     *catalog.Catalog
	Resume      *auth.ResumeManager
	Sink        repository.ResultSink
	Leaderboard repository.Leaderboard
	Seed        int64 // 0 means time-derived; tests pin it
}

// Server routes WebSocket sessions to rooms.
type Server struct {
	cat    *catalog.Catalog
	resume *auth.ResumeManager
	sink   repository.ResultSink
	board  repository.Leaderboard

	mu         sync.RWMutex
	rng        *rand.Rand // guarded by mu
	clients    map[string]*Client
	rooms      map[string]*room.Room
	membership map[string]string // clientID -> room code
}

// New creates a Server.
func New(opts Options) *Server {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Server{
		cat:        cat,
		resume:     opts.Resume,
		sink:       opts.Sink,
		board:      opts.Leaderboard,
		rng:        rand.New(rand.NewSource(seed)),
		clients:    make(map[string]*Client),
		rooms:      make(map[string]*room.Room),
		membership: make(map[string]string),
	}
}

// Routes returns the HTTP mux: the WebSocket endpoint plus a health
// probe.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.ServeWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Send implements room.Sender. Marshals the frame and queues it without
// blocking; a full buffer drops the frame rather than stall a room.
func (s *Server) Send(clientID string, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Str("clientId", clientID).Msg("Failed to marshal outbound frame")
		return
	}
	s.mu.RLock()
	c := s.clients[clientID]
	s.mu.RUnlock()
	if c != nil {
		c.enqueue(data)
	}
}

// ServeWS handles GET /ws. A ?resume= ticket reclaims a previous client
// id and its seat; otherwise the connection gets a fresh id.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := ""
	name := ""
	if token := r.URL.Query().Get("resume"); token != "" && s.resume != nil {
		claims, err := s.resume.Validate(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired resume token"}`, http.StatusUnauthorized)
			return
		}
		clientID = claims.ClientID
		name = claims.Name
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &Client{
		id:   clientID,
		name: name,
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	s.register(c)

	welcome := protocol.Welcome{Type: protocol.FrameWelcome, ClientID: c.id}
	if s.resume != nil {
		if token, err := s.resume.Issue(c.id, c.name); err == nil {
			welcome.ResumeToken = token
		}
	}
	c.enqueue(mustMarshal(welcome))

	go s.writePump(c)
	go s.readPump(c)

	if rm := s.roomOf(c.id); rm != nil {
		rm.Do(func() { rm.Reconnect(c.id) })
	}
	log.Info().Str("clientId", c.id).Int("total", s.ClientCount()).Msg("WebSocket client connected")
}

// register installs the connection, displacing a stale one with the same
// id after a resume.
func (s *Server) register(c *Client) {
	s.mu.Lock()
	old := s.clients[c.id]
	s.clients[c.id] = c
	s.mu.Unlock()
	if old != nil && old.conn != nil {
		old.conn.Close()
	}
}

// handleDisconnect detaches the connection and tells the client's room,
// unless a newer connection already took over the id.
func (s *Server) handleDisconnect(c *Client) {
	s.mu.Lock()
	if s.clients[c.id] != c {
		s.mu.Unlock()
		return
	}
	delete(s.clients, c.id)
	code := s.membership[c.id]
	rm := s.rooms[code]
	s.mu.Unlock()

	if rm != nil {
		rm.Do(func() { rm.Disconnect(c.id) })
	}
}

// handleFrame decodes one inbound frame and dispatches it.
func (s *Server) handleFrame(c *Client, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	switch msg.Type {
	case protocol.MsgSetName:
		s.handleSetName(c, msg.Name)
	case protocol.MsgCreateRoom:
		s.handleCreateRoom(c)
	case protocol.MsgJoinRoom:
		s.handleJoinRoom(c, msg.RoomID)
	case protocol.MsgLeaveRoom:
		s.handleLeaveRoom(c)
	case protocol.MsgListRooms:
		s.handleListRooms(c)
	case protocol.MsgReady:
		s.inRoom(c, func(rm *room.Room) { rm.SetReady(c.id, msg.Ready) })
	case protocol.MsgChat:
		s.inRoom(c, func(rm *room.Room) { rm.Chat(c.id, msg.Message) })
	case protocol.MsgAction:
		act := msg.Action
		s.inRoom(c, func(rm *room.Room) { rm.HandleAction(c.id, act) })
	}
}

func (s *Server) handleSetName(c *Client, name string) {
	if name == "" {
		c.sendError("Name cannot be empty")
		return
	}
	c.name = name
	c.enqueue(mustMarshal(protocol.NameSet{Type: protocol.FrameNameSet, Name: name}))
}

func (s *Server) handleCreateRoom(c *Client) {
	if s.roomOf(c.id) != nil {
		c.sendError("Already in a room")
		return
	}
	rm := s.createRoom(c.id)
	c.enqueue(mustMarshal(protocol.RoomCreated{Type: protocol.FrameRoomCreated, RoomID: rm.Code}))
	rm.Do(func() {
		if err := rm.Join(c.id, s.displayName(c)); err != nil {
			c.sendError(err.Error())
		}
	})
	log.Info().Str("clientId", c.id).Str("roomCode", rm.Code).Msg("Room created")
}

// createRoom allocates a collision-free code and registers the room. The
// creator's membership is recorded up front so a racing disconnect still
// reaches the room.
func (s *Server) createRoom(clientID string) *room.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := newRoomCode(s.rng)
	for s.rooms[code] != nil {
		code = newRoomCode(s.rng)
	}
	rm := room.New(code, s.cat, s, room.Options{
		Sink:        s.sink,
		Leaderboard: s.board,
		OnEmpty:     s.removeRoom,
	})
	s.rooms[code] = rm
	s.membership[clientID] = code
	return rm
}

func (s *Server) handleJoinRoom(c *Client, roomID string) {
	if s.roomOf(c.id) != nil {
		c.sendError("Already in a room")
		return
	}
	code := normalizeCode(roomID)
	s.mu.RLock()
	rm := s.rooms[code]
	s.mu.RUnlock()
	if rm == nil {
		c.sendError(room.ErrRoomNotFound.Error())
		return
	}
	var joinErr error
	rm.Do(func() { joinErr = rm.Join(c.id, s.displayName(c)) })
	if joinErr != nil {
		c.sendError(joinErr.Error())
		return
	}
	s.mu.Lock()
	s.membership[c.id] = code
	s.mu.Unlock()
}

func (s *Server) handleLeaveRoom(c *Client) {
	rm := s.roomOf(c.id)
	if rm == nil {
		c.sendError(room.ErrNotInGame.Error())
		return
	}
	rm.Do(func() { rm.Leave(c.id) })
	s.mu.Lock()
	delete(s.membership, c.id)
	s.mu.Unlock()
	c.enqueue(mustMarshal(protocol.LeftRoom{Type: protocol.FrameLeftRoom}))
}

func (s *Server) handleListRooms(c *Client) {
	s.mu.RLock()
	rooms := make([]*room.Room, 0, len(s.rooms))
	for _, rm := range s.rooms {
		rooms = append(rooms, rm)
	}
	s.mu.RUnlock()

	infos := make([]room.Info, 0, len(rooms))
	for _, rm := range rooms {
		var info room.Info
		rm.Do(func() { info = rm.Snapshot() })
		infos = append(infos, info)
	}
	c.enqueue(mustMarshal(protocol.RoomList{Type: protocol.FrameRoomList, Rooms: infos}))
}

// inRoom runs fn on the client's room goroutine, or reports that there
// is no room.
func (s *Server) inRoom(c *Client, fn func(rm *room.Room)) {
	rm := s.roomOf(c.id)
	if rm == nil {
		c.sendError(room.ErrNotInGame.Error())
		return
	}
	rm.Do(func() { fn(rm) })
}

func (s *Server) roomOf(clientID string) *room.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.membership[clientID]
	if !ok {
		return nil
	}
	return s.rooms[code]
}

// removeRoom is the room's OnEmpty callback: drop it from the registry
// along with any memberships still pointing at it.
func (s *Server) removeRoom(rm *room.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, rm.Code)
	for clientID, code := range s.membership {
		if code == rm.Code {
			delete(s.membership, clientID)
		}
	}
	log.Info().Str("roomCode", rm.Code).Msg("Room deleted")
}

func (s *Server) displayName(c *Client) string {
	if c.name != "" {
		return c.name
	}
	if len(c.id) >= 4 {
		return "Player-" + c.id[:4]
	}
	return "Player"
}

// ClientCount returns the number of live connections.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// RoomCount returns the number of registered rooms.
func (s *Server) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func mustMarshal(frame any) []byte {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal outbound frame")
		return []byte(`{"type":"error","message":"internal error"}`)
	}
	return data
}
