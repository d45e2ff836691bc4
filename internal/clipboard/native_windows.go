//go:build windows

package clipboard

import (
	"runtime"
	"strings"
	"unsafe"

	"github.com/takak2166/mailassist/internal/logger"
	"golang.org/x/sys/windows"
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard            = user32.NewProc("OpenClipboard")
	procCloseClipboard           = user32.NewProc("CloseClipboard")
	procEmptyClipboard           = user32.NewProc("EmptyClipboard")
	procGetClipboardData         = user32.NewProc("GetClipboardData")
	procSetClipboardData         = user32.NewProc("SetClipboardData")
	procRegisterClipboardFormatW = user32.NewProc("RegisterClipboardFormatW")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalSize   = kernel32.NewProc("GlobalSize")
)

// nativeTransport talks to the Win32 clipboard through global memory
// handles. It writes CF_UNICODETEXT and the registered "HTML Format".
type nativeTransport struct {
	htmlFormat uintptr
}

func newNativeTransport() (Transport, bool) {
	if user32.Load() != nil || kernel32.Load() != nil {
		return nil, false
	}
	name, err := windows.UTF16PtrFromString(FormatName)
	if err != nil {
		return nil, false
	}
	format, _, _ := procRegisterClipboardFormatW.Call(uintptr(unsafe.Pointer(name)))
	if format == 0 {
		return nil, false
	}
	return &nativeTransport{htmlFormat: format}, true
}

func (t *nativeTransport) Name() string {
	return "win32"
}

// openClipboard opens the clipboard on a locked OS thread. The returned
// func closes it and releases the thread.
func openClipboard() (func(), bool) {
	runtime.LockOSThread()
	if r, _, _ := procOpenClipboard.Call(0); r == 0 {
		runtime.UnlockOSThread()
		return nil, false
	}
	return func() {
		procCloseClipboard.Call()
		runtime.UnlockOSThread()
	}, true
}

func (t *nativeTransport) ReadHTML() ([]byte, bool) {
	closeClipboard, ok := openClipboard()
	if !ok {
		return nil, false
	}
	defer closeClipboard()
	return readHandle(t.htmlFormat)
}

func (t *nativeTransport) ReadText() (string, bool) {
	closeClipboard, ok := openClipboard()
	if !ok {
		return "", false
	}
	defer closeClipboard()

	data, ok := readHandle(cfUnicodeText)
	if !ok || len(data) < 2 {
		return "", false
	}
	units := unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), len(data)/2)
	text := windows.UTF16ToString(units)
	return text, text != ""
}

func (t *nativeTransport) Write(plain, fragment string) bool {
	closeClipboard, ok := openClipboard()
	if !ok {
		return false
	}
	defer closeClipboard()

	if r, _, _ := procEmptyClipboard.Call(); r == 0 {
		return false
	}

	text, err := windows.UTF16FromString(strings.ReplaceAll(plain, "\x00", ""))
	if err != nil {
		return false
	}
	wrote := setHandle(cfUnicodeText, unsafe.Slice((*byte)(unsafe.Pointer(&text[0])), len(text)*2))

	if fragment != "" {
		container := append([]byte(Encode(fragment, "")), 0)
		if !setHandle(t.htmlFormat, container) {
			logger.Debug("Clipboard HTML format not written", map[string]interface{}{
				"transport": t.Name(),
			})
		}
	}
	return wrote
}

// readHandle copies the clipboard data for format out of global memory.
// The clipboard must be open.
func readHandle(format uintptr) ([]byte, bool) {
	handle, _, _ := procGetClipboardData.Call(format)
	if handle == 0 {
		return nil, false
	}
	ptr, _, _ := procGlobalLock.Call(handle)
	if ptr == 0 {
		return nil, false
	}
	defer procGlobalUnlock.Call(handle)

	size, _, _ := procGlobalSize.Call(handle)
	if size == 0 {
		return nil, false
	}
	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size))
	return data, true
}

// setHandle moves data into movable global memory and hands it to the
// clipboard, which owns the handle on success. The clipboard must be open.
func setHandle(format uintptr, data []byte) bool {
	handle, _, _ := procGlobalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if handle == 0 {
		return false
	}
	ptr, _, _ := procGlobalLock.Call(handle)
	if ptr == 0 {
		procGlobalFree.Call(handle)
		return false
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(data)), data)
	procGlobalUnlock.Call(handle)

	if r, _, _ := procSetClipboardData.Call(format, handle); r == 0 {
		procGlobalFree.Call(handle)
		return false
	}
	return true
}
