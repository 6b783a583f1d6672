package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"randoexport/internal/cost"
	"randoexport/internal/export"
	"randoexport/internal/protocol"
)

// Server feeds an exported profile to tracker clients.
type Server struct {
	log *zap.Logger

	upgrader websocket.Upgrader

	// pongWait bounds the silence from a connected tracker; pings go out
	// every pingPeriod so listen-only trackers stay connected.
	pongWait   time.Duration
	pingPeriod time.Duration

	mu      sync.RWMutex
	welcome *protocol.WelcomeMsg
	raw     json.RawMessage
	hits    map[string][]protocol.ResultHit
}

func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		log:        logger,
		pongWait:   60 * time.Second,
		pingPeriod: 54 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // trackers run locally
		},
	}
}

// Publish replaces the profile served to new and existing clients.
func (s *Server) Publish(p *export.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	sum := p.Summary()
	welcome := &protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ExportID:        p.ID,
		Seed:            p.Seed,
		Counts: protocol.Counts{
			Placements:  sum.Placements,
			Items:       sum.Items,
			Transitions: sum.Transitions,
		},
		ShopDefaults: uint32(p.ShopDefaults),
		Modules:      append([]string(nil), p.Modules...),
	}
	hits := map[string][]protocol.ResultHit{}
	for _, a := range p.Placements {
		for _, it := range a.Items {
			hits[it.Name] = append(hits[it.Name], protocol.ResultHit{
				Index:    it.Tag,
				Location: a.Name,
				Cost:     costLabel(a.ItemCost(it)),
			})
		}
	}
	for _, hs := range hits {
		sort.Slice(hs, func(i, j int) bool { return hs[i].Index < hs[j].Index })
	}

	s.mu.Lock()
	s.welcome = welcome
	s.raw = raw
	s.hits = hits
	s.mu.Unlock()
	s.log.Info("profile published", zap.String("export_id", p.ID), zap.Int("items", sum.Items))
	return nil
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		name, ok := s.handshake(conn)
		if !ok {
			return
		}
		s.log.Debug("tracker connected", zap.String("client", name), zap.String("remote", r.RemoteAddr))

		_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(s.pongWait))
		})
		done := make(chan struct{})
		defer close(done)
		go s.keepalive(conn, done)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
			if err := s.handle(conn, msg); err != nil {
				break
			}
		}
		s.log.Debug("tracker disconnected", zap.String("client", name))
	}
}

func (s *Server) keepalive(conn *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(s.pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = writeJSON(conn, protocol.NewError(protocol.ErrProtoVersion, "bad protocol_version"))
		return "", false
	}
	if strings.TrimSpace(hello.ClientName) == "" {
		hello.ClientName = "tracker"
	}

	s.mu.RLock()
	welcome, raw := s.welcome, s.raw
	s.mu.RUnlock()
	if welcome == nil {
		_ = writeJSON(conn, protocol.NewError(protocol.ErrNoProfile, "no profile published"))
		return "", false
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", false
	}
	if hello.WantProfile {
		if err := writeJSON(conn, profileMsg(raw)); err != nil {
			return "", false
		}
	}
	return hello.ClientName, true
}

func (s *Server) handle(conn *websocket.Conn, msg []byte) error {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return writeJSON(conn, protocol.NewError(protocol.ErrProtoBadRequest, "malformed message"))
	}
	if base.ProtocolVersion != protocol.Version {
		return writeJSON(conn, protocol.NewError(protocol.ErrProtoVersion, "bad protocol_version"))
	}

	switch base.Type {
	case protocol.TypeProfile:
		s.mu.RLock()
		raw := s.raw
		s.mu.RUnlock()
		return writeJSON(conn, profileMsg(raw))

	case protocol.TypeQuery:
		var q protocol.QueryMsg
		if err := json.Unmarshal(msg, &q); err != nil || q.Item == "" {
			return writeJSON(conn, protocol.NewError(protocol.ErrBadRequest, "query needs an item"))
		}
		s.mu.RLock()
		hits := s.hits[q.Item]
		s.mu.RUnlock()
		if len(hits) == 0 {
			return writeJSON(conn, protocol.NewError(protocol.ErrNotFound, "item not placed: "+q.Item))
		}
		return writeJSON(conn, protocol.ResultMsg{
			Type:            protocol.TypeResult,
			ProtocolVersion: protocol.Version,
			Item:            q.Item,
			Hits:            hits,
		})
	}
	return writeJSON(conn, protocol.NewError(protocol.ErrBadRequest, "unsupported type "+base.Type))
}

func costLabel(c cost.Cost) string {
	if c.IsFree() {
		return ""
	}
	return c.String()
}

func profileMsg(raw json.RawMessage) protocol.ProfileMsg {
	return protocol.ProfileMsg{Type: protocol.TypeProfile, ProtocolVersion: protocol.Version, Profile: raw}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	}
	return nil
}
