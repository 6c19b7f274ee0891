package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which author/category
	// columns are dropped from book lists.
	LayoutCompactWidth = 80

	// LayoutWideWidth is the minimum width to show the language column.
	LayoutWideWidth = 110
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads store snapshots.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a toast stays on screen.
	ToastDuration = 4 * time.Second

	// RequestTimeout bounds one-off requests issued from the UI.
	RequestTimeout = 20 * time.Second
)
