package state

// SyncMsg carries a throttled sync pass to run on the program loop.
type SyncMsg struct {
	Run func()
}

// RedrawMsg asks the model to re-read buffers and scrollmaps.
type RedrawMsg struct{}

// clearStatusMsg clears the status message set with the given sequence.
type clearStatusMsg struct {
	seq int
}
