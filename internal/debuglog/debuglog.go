package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Debug logging (enable by setting WORKTRACK_DEBUG=1)
var (
	mu  sync.Mutex
	out *os.File
)

func init() {
	if os.Getenv("WORKTRACK_DEBUG") == "1" {
		Open(filepath.Join(os.TempDir(), "worktrack-debug.log"))
	}
}

// Open starts appending debug output to path. Errors are ignored; debug
// logging is best effort.
func Open(path string) {
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	if out != nil {
		out.Close()
	}
	out = f
}

// Enabled reports whether debug output is being written
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

// Printf writes one timestamped line when debug logging is enabled
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	fmt.Fprintf(out, time.Now().Format("15:04:05.000")+" "+format+"\n", args...)
	out.Sync()
}

// Close stops debug output
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		out.Close()
		out = nil
	}
}
