package models

// PlayerPosition is the position a member plays in
type PlayerPosition string

const (
	PlayerPositionGoalkeeper PlayerPosition = "goalkeeper"
	PlayerPositionDefender   PlayerPosition = "defender"
	PlayerPositionMidfielder PlayerPosition = "midfielder"
	PlayerPositionForward    PlayerPosition = "forward"
)

// IsValid checks if the PlayerPosition is valid; empty means unassigned
func (p PlayerPosition) IsValid() bool {
	switch p {
	case "", PlayerPositionGoalkeeper, PlayerPositionDefender, PlayerPositionMidfielder, PlayerPositionForward:
		return true
	}
	return false
}
