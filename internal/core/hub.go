package core

import (
	"context"

	"github.com/rs/zerolog"
)

type request struct {
	client string
	cmd    Command
}

// Hub serializes all directory work through one goroutine and delivers the
// resulting events to client channels in the order they were produced.
type Hub struct {
	dispatcher *Dispatcher
	register   chan *Client
	unregister chan *Client
	inbox      chan request
	done       chan struct{}
	clients    map[string]*Client
	log        zerolog.Logger
}

// NewHub creates a hub around dispatcher.
func NewHub(dispatcher *Dispatcher, logger *zerolog.Logger) *Hub {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "hub").Logger()
	}
	return &Hub{
		dispatcher: dispatcher,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan request, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
		log:        l,
	}
}

// Directory returns the directory the hub mutates.
func (h *Hub) Directory() *Directory {
	return h.dispatcher.Directory()
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			if c == nil {
				continue
			}
			h.clients[c.ID] = c
			h.deliver(h.dispatcher.Connect(c.ID))
			h.log.Info().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client registered")
		case c := <-h.unregister:
			if c == nil {
				continue
			}
			if current, ok := h.clients[c.ID]; !ok || current != c {
				continue
			}
			delete(h.clients, c.ID)
			out := h.dispatcher.Disconnect(c.ID)
			close(c.Events)
			h.deliver(out)
			h.log.Info().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client unregistered")
		case req := <-h.inbox:
			h.deliver(h.dispatcher.Handle(req.client, req.cmd))
		}
	}
}

// RegisterClient adds a client. Returns ErrHubStopped if the loop has exited.
func (h *Hub) RegisterClient(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// UnregisterClient removes a client and closes its event channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit queues a command on behalf of clientID.
func (h *Hub) Submit(ctx context.Context, clientID string, cmd Command) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.inbox <- request{client: clientID, cmd: cmd}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) deliver(envelopes []Envelope) {
	for _, env := range envelopes {
		for _, id := range env.To {
			c, ok := h.clients[id]
			if !ok {
				continue
			}
			select {
			case c.Events <- env.Event:
			default:
				// Drop if slow consumer.
				h.log.Warn().Str("client_id", id).Int("kind", int(env.Event.Kind())).Msg("event dropped, client buffer full")
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, c := range h.clients {
		h.dispatcher.Disconnect(id)
		close(c.Events)
		delete(h.clients, id)
	}
}
