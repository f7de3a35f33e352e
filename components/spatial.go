package components

// Anchor is a needle's fixed position in viewport pixels.
// It never changes after the needle is created.
type Anchor struct {
	X, Y float64
}

// Heading is a needle's current orientation.
type Heading struct {
	Angle float64 // radians, unwrapped
}
