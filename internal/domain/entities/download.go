package entities

// DownloadState is the lifecycle state of a download task.
type DownloadState int

const (
	DownloadRunning DownloadState = iota
	DownloadCompleted
	DownloadFailed
)

// String returns a human-readable string for the download state.
func (s DownloadState) String() string {
	switch s {
	case DownloadRunning:
		return "running"
	case DownloadCompleted:
		return "completed"
	case DownloadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UnknownSize is reported as total when the server sends no usable Content-Length.
const UnknownSize int64 = -1

// Progress is a snapshot of a running download.
type Progress struct {
	// File is the URL currently being transferred.
	File string
	// Downloaded is the cumulative byte count of the current file.
	Downloaded int64
	// Total is the declared size of the current file or UnknownSize.
	Total int64
	// FilesDone counts completed files, FilesTotal includes the primary artifact.
	FilesDone  int
	FilesTotal int
}

// Percent returns completion of the current file in [0, 100], or false when
// the total size is unknown.
func (p Progress) Percent() (float64, bool) {
	if p.Total == UnknownSize {
		return 0, false
	}
	if p.Total == 0 {
		return 100, true
	}
	percent := 100 * float64(p.Downloaded) / float64(p.Total)
	if percent > 100 {
		percent = 100
	}
	return percent, true
}

// DownloadResult is the terminal outcome of a download task.
type DownloadResult struct {
	State DownloadState
	// Files lists the destination paths written, primary artifact first.
	Files []string
	// Err wraps ErrDownload when State is DownloadFailed.
	Err error
}

// Failed reports whether the download ended in failure.
func (r DownloadResult) Failed() bool {
	return r.State == DownloadFailed
}
