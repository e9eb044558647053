package ports

// Watcher monitors a single text file and reports writes to it.
// The adapter (fsnotify) debounces bursts of events, since editors often
// trigger several writes per save. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute path
	// after each debounced change. The callback may be invoked from any
	// goroutine. Returns an error if the file's directory cannot be watched.
	Watch(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
