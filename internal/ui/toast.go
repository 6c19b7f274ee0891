package ui

import "time"

// toast is a transient status message.
type toast struct {
	text    string
	isError bool
	until   time.Time
}

func (m *Model) showToast(text string, isError bool) {
	m.toast = toast{text: text, isError: isError, until: m.now().Add(ToastDuration)}
}

// activeToast returns the toast if it has not expired.
func (m Model) activeToast() (toast, bool) {
	if m.toast.text == "" || m.now().After(m.toast.until) {
		return toast{}, false
	}
	return m.toast, true
}
