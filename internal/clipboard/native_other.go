//go:build !windows

package clipboard

func newNativeTransport() (Transport, bool) {
	return nil, false
}
