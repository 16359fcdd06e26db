package display

import "image"

// Key is one of the keystrokes the review loop understands
type Key int

const (
	KeyUnknown Key = iota
	KeyQuit
	KeyPrev
	KeyNext
	KeyAccept
	// KeyNone means the wait ended without a keystroke, e.g. the window was closed
	KeyNone
)

// Key codes as returned by the window system
const (
	CodeQuit   = 'q'
	CodePrev   = 'a'
	CodeNext   = 'd'
	CodeAccept = 's'
)

// ParseKey maps a raw key code to a Key. Only the low byte is significant.
func ParseKey(code int) Key {
	if code < 0 {
		return KeyNone
	}
	switch code & 0xFF {
	case CodeQuit:
		return KeyQuit
	case CodePrev:
		return KeyPrev
	case CodeNext:
		return KeyNext
	case CodeAccept:
		return KeyAccept
	default:
		return KeyUnknown
	}
}

func (k Key) String() string {
	switch k {
	case KeyQuit:
		return "quit"
	case KeyPrev:
		return "previous"
	case KeyNext:
		return "next"
	case KeyAccept:
		return "accept"
	case KeyNone:
		return "none"
	default:
		return "unknown"
	}
}

// Display creates windows. Each window is owned by one review step and
// must be closed by it.
type Display interface {
	Open(title string, width, height int) (Window, error)
}

// Window shows one frame and blocks for key presses
type Window interface {
	Show(frame image.Image) error
	ShowStatus(lines []string) error
	// WaitKey blocks until a key is pressed.
	WaitKey() Key
	Close() error
}
