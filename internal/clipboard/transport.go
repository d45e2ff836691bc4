package clipboard

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/takak2166/mailassist/internal/logger"
)

// Transport moves clipboard data to and from the operating system.
// Implementations never fail loudly: a false/absent result tells the
// caller to try the next transport or representation.
type Transport interface {
	Name() string
	// ReadHTML returns the raw bytes of the best HTML target available
	ReadHTML() ([]byte, bool)
	ReadText() (string, bool)
	// Write replaces the clipboard with plain text and, where the transport
	// can serve it, the HTML fragment.
	Write(plain, fragment string) bool
}

// htmlTargets lists HTML clipboard targets in order of preference
var htmlTargets = []string{"text/html", FormatName, "text/_moz_htmlcontext"}

// Detect returns the transports usable on this machine, best first
func Detect() []Transport {
	var transports []Transport
	if t, ok := newNativeTransport(); ok {
		transports = append(transports, t)
	}
	if t, ok := newCommandTransport(runtime.GOOS, os.Getenv, exec.LookPath, execRunner{}); ok {
		transports = append(transports, t)
	}

	names := make([]string, 0, len(transports))
	for _, t := range transports {
		names = append(names, t.Name())
	}
	logger.Debug("Detected clipboard transports", map[string]interface{}{
		"transports": names,
	})
	return transports
}

// orderTargets keeps the HTML targets offered by the clipboard, most
// preferred first. With no target list it falls back to the common ones.
func orderTargets(available []string) []string {
	if len(available) == 0 {
		return []string{"text/html", FormatName}
	}
	offered := make(map[string]bool, len(available))
	for _, target := range available {
		offered[target] = true
	}
	var ordered []string
	for _, target := range htmlTargets {
		if offered[target] {
			ordered = append(ordered, target)
		}
	}
	return ordered
}
