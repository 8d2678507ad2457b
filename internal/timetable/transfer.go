package timetable

// Transfer is a directed walking connection between two stops, typically
// platforms of the same station or of adjacent stations.
type Transfer struct {
	From *Stop
	To   *Stop
	// Layover is the walking cost in seconds.
	Layover int
}
