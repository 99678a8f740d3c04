package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AllieBaig/lingoquest/internal/worker"
)

// WSHandler exposes the question/scoring worker over a websocket. Each
// inbound frame is one request envelope; responses are written as they
// complete, so responses for distinct correlation ids may arrive out of
// order and clients must correlate by id.
type WSHandler struct {
	worker   *worker.Worker
	upgrader websocket.Upgrader
}

func NewWSHandler(w *worker.Worker) *WSHandler {
	return &WSHandler{
		worker: w,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the connection and pumps request envelopes through the
// worker. A dedicated writer goroutine keeps websocket writes serialized.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan worker.Response, 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var inflight sync.WaitGroup
	for {
		var req worker.Request
		if err := conn.ReadJSON(&req); err != nil {
			break
		}
		// Each request runs independently; Dispatch never panics outward,
		// so a bad request errors its own envelope and nothing else.
		inflight.Add(1)
		go func(req worker.Request) {
			defer inflight.Done()
			resp := h.worker.Dispatch(r.Context(), req)
			select {
			case send <- resp:
			case <-writerDone:
				// Writer is gone; the response has nowhere to go.
			}
		}(req)
	}

	inflight.Wait()
	close(send)
	<-writerDone
}
