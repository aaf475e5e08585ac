package sim

// IsLocallyAuthoritative reports whether this peer computes the ball's next
// position. Authority follows the ball's direction of travel: the side the
// ball is approaching simulates, the other side mirrors what it receives.
// In the local frame the player sits at the bottom, so positive vertical
// velocity means the ball is headed toward the local paddle. Single-player
// games have no peer to defer to.
func IsLocallyAuthoritative(ballVY float64, singlePlayer bool) bool {
	return singlePlayer || ballVY > 0
}

// Mirror maps a normalized coordinate between the two peers' frames.
func Mirror(v float64) float64 {
	return 1 - v
}
