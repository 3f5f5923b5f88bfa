package domain

// Coordinate is an immutable WGS84 point. Produced by the device location
// service or stored against a target point.
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// DistanceReading is derived from the most recent device position against
// a fixed target coordinate. Transient: it lives only in the report
// session, never in storage.
type DistanceReading struct {
	Meters      float64 `json:"meters"`
	WithinFence bool    `json:"within_fence"`
}
