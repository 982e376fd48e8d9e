package core

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	// PrivateRoomPrefix marks derived direct-message room names.
	// Public room names may not start with it.
	PrivateRoomPrefix = "private:"
	privateRoomSep    = ":"
)

var idEscaper = strings.NewReplacer(`\`, `\\`, privateRoomSep, `\`+privateRoomSep)

// PrivateRoomName derives the room name shared by a fixed set of participants.
// Duplicates are ignored and order does not matter. Separators inside ids are
// escaped, so distinct sets always map to distinct names.
func PrivateRoomName(participants ...string) string {
	ids := lo.Uniq(participants)
	slices.Sort(ids)
	return PrivateRoomPrefix + strings.Join(lo.Map(ids, func(id string, _ int) string {
		return idEscaper.Replace(id)
	}), privateRoomSep)
}

// IsPrivateRoomName reports whether name lies in the derived private namespace.
func IsPrivateRoomName(name string) bool {
	return strings.HasPrefix(name, PrivateRoomPrefix)
}
