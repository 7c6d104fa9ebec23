package game

import "starshunters-server/config"

type Point struct {
	X float64
	Y float64
}

type Dimensions struct {
	Width  float64
	Height float64
}

var (
	shipDims = Dimensions{Width: config.ShipSize, Height: config.ShipSize}
	starDims = Dimensions{Width: config.StarSize, Height: config.StarSize}
)

// checkAABBCollision checks for collision between two axis-aligned bounding boxes.
// Boxes that only touch along an edge do not collide.
func checkAABBCollision(pos1 Point, dims1 Dimensions, pos2 Point, dims2 Dimensions) bool {
	if pos1.X < pos2.X+dims2.Width && pos1.X+dims1.Width > pos2.X {
		if pos1.Y < pos2.Y+dims2.Height && pos1.Y+dims1.Height > pos2.Y {
			return true
		}
	}
	return false
}

// DetectPlayerStarCollision is the authoritative pickup test.
func DetectPlayerStarCollision(p *Player, s *Star) bool {
	return checkAABBCollision(Point{X: p.X, Y: p.Y}, shipDims, Point{X: s.X, Y: s.Y}, starDims)
}

// IsValidMove reports whether a ship placed at (x, y) stays inside the arena.
func IsValidMove(x, y float64, cfg Config) bool {
	return x >= 0 &&
		x <= float64(cfg.Width-config.ShipExtent) &&
		y >= 0 &&
		y <= float64(cfg.Height-config.ShipExtent)
}
