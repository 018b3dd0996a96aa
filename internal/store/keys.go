package store

import (
	"encoding/binary"
	"encoding/hex"
	"time"
)

const (
	sessionPrefix          = "session:"
	sessionByUserEndPrefix = "session:idx:user_end:"
	unlockPrefix           = "unlock:"
	userPrefix             = "user:"
	friendPrefix           = "friend:"
)

// sortableTime encodes t so that byte order matches chronological order,
// including instants before the Unix epoch.
func sortableTime(t time.Time) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t.UnixNano())^(1<<63))
	return hex.EncodeToString(buf[:])
}

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

// sessionUserEndKey indexes a session by owner and end time:
// session:idx:user_end:<userID>:<end>:<sessionID>.
func sessionUserEndKey(userID string, end time.Time, id string) []byte {
	return []byte(sessionByUserEndPrefix + userID + ":" + sortableTime(end) + ":" + id)
}

func sessionUserPrefix(userID string) string {
	return sessionByUserEndPrefix + userID + ":"
}

func unlockUserPrefix(userID string) string {
	return unlockPrefix + userID + ":"
}

func unlockKey(userID, badgeName string) []byte {
	return []byte(unlockUserPrefix(userID) + badgeName)
}

func userKey(id string) []byte {
	return []byte(userPrefix + id)
}

// friendKey stores one direction of a friendship: friend:<userID>:<friendID>.
func friendKey(userID, friendID string) []byte {
	return []byte(friendPrefix + userID + ":" + friendID)
}
