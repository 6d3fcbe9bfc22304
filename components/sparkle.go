package components

// SparklePos is the current world position of a sparkle.
type SparklePos struct {
	X, Y, Z float32
}

// SparkleAnchor is the rest position a sparkle drifts around, relative to its
// layer origin.
type SparkleAnchor struct {
	X, Y, Z float32
}

// Sparkle holds per-glint appearance.
type Sparkle struct {
	Layer uint8
	Size  float32
	Phase float32
	Alpha float32 // Updated each frame
}
