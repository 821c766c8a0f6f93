// Package domain contains entities without logic, just meta-data
package domain

import "errors"

const MaxPlayerNameLen = 36

var (
	ErrNameTooLong = errors.New("player name too long")
	ErrNameEmpty   = errors.New("player name empty")
)

type PlayerID string

type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// NewPlayer is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewPlayer(id PlayerID, name string) (*Player, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxPlayerNameLen {
		return nil, ErrNameTooLong
	}
	return &Player{ID: id, Name: name}, nil
}
