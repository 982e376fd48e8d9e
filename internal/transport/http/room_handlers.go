package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/wirerelay/internal/core"
)

// RoomHandlers serves read-only snapshots of the directory.
type RoomHandlers struct {
	dir *core.Directory
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(dir *core.Directory, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		dir: dir,
		log: logger,
	}
}

// RoomResponse represents a public room in API responses.
type RoomResponse struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// StatsResponse reports directory counts.
type StatsResponse struct {
	Clients     int `json:"clients"`
	Rooms       int `json:"rooms"`
	PublicRooms int `json:"public_rooms"`
}

// ListRooms handles listing public rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := lo.Map(h.dir.PublicRooms(), func(info core.RoomInfo, _ int) RoomResponse {
		return RoomResponse{Name: info.Name, Members: info.Members}
	})

	h.log.Debug().Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, rooms)
}

// Stats handles directory counters.
// GET /api/stats
func (h *RoomHandlers) Stats(c *gin.Context) {
	stats := h.dir.Stats()
	c.JSON(http.StatusOK, StatsResponse{
		Clients:     stats.Clients,
		Rooms:       stats.Rooms,
		PublicRooms: stats.Public,
	})
}
