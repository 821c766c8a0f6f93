package domain

import "errors"

type RoomID string

const MaxRoomIDLen = 36

var ErrRoomIDTooLong = errors.New("room id too long")

// NewRoomID validates a client-supplied room identifier. Empty is
// allowed; callers mint a fresh id in that case.
func NewRoomID(raw string) (RoomID, error) {
	if len(raw) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(raw), nil
}
