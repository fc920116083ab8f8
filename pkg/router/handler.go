package router

import (
	"net/http"
	"strings"

	ws "github.com/coder/websocket"

	"github.com/ohyo-io/wampire/pkg/wampproto"
)

// ServeHTTP upgrades an incoming request to a WebSocket connection,
// negotiating one of the wamp.2.json/wamp.2.msgpack sub-protocols, and
// hands it off to a new Session's read loop. A client offering neither
// sub-protocol fails the handshake (spec §4.5).
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	offered := false
	for _, header := range req.Header.Values("Sec-WebSocket-Protocol") {
		for _, token := range strings.Split(header, ",") {
			if _, ok := wampproto.ByName(strings.TrimSpace(token)); ok {
				offered = true
			}
		}
	}
	if !offered {
		http.Error(w, "no supported wamp subprotocol offered", http.StatusBadRequest)
		return
	}

	conn, err := ws.Accept(w, req, &ws.AcceptOptions{
		Subprotocols:    wampproto.Subprotocols(),
		CompressionMode: ws.CompressionDisabled,
	})
	if err != nil {
		r.log.Warn("websocket accept failed", "error", err)
		return
	}

	codec, ok := wampproto.ByName(conn.Subprotocol())
	if !ok {
		conn.Close(ws.StatusProtocolError, "no supported wamp subprotocol negotiated")
		return
	}

	sess := newSession(r, conn, codec)
	sess.serve()
}
