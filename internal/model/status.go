package model

// Status is the lifecycle state of a download record
type Status string

const (
	// StatusReady means the backing file exists on disk and is servable
	StatusReady Status = "ready"

	// StatusError means the fetch failed and no file was produced
	StatusError Status = "error"

	// StatusDeleted means the backing file was removed, the row is kept for history
	StatusDeleted Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states a record can never leave
func (s Status) IsTerminal() bool {
	return s == StatusError || s == StatusDeleted
}

// Mode selects the kind of stream the extraction backend should grab
type Mode string

const (
	// ModeVideo requests a combined audio+video stream
	ModeVideo Mode = "video"

	// ModeAudio requests an audio-only stream
	ModeAudio Mode = "audio"
)

func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	return m == ModeVideo || m == ModeAudio
}
