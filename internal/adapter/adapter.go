package adapter

// Adapter represents a host runtime for the server functions
type Adapter interface {
	// Start begins the adapter's runtime execution
	Start() error
}
