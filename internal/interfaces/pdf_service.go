package interfaces

// DocumentExporter turns generated itinerary text into a downloadable document
type DocumentExporter interface {
	// Export renders title as a heading and body as one paragraph per line.
	// Characters outside the document encoding are sanitized, never rejected.
	Export(body, title string) ([]byte, error)
}
