package platform

// macOS idle time needs IOKit through cgo, which the build avoids.
func newIdleProvider() IdleProvider {
	return unsupportedIdleProvider{}
}
