package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

const (
	lockMaxRetries = 10
	lockRetryDelay = 100 * time.Millisecond
	lockStaleAge   = 30 * time.Second
	lockDirPerm    = 0o750
	lockFilePerm   = 0o600
	lockFileSuffix = ".lock"
	tempFileSuffix = ".tmp"
	stateFilePerm  = 0o600
	stateDirPerm   = 0o750
)

// acquireFileLock takes a cross-process advisory lock next to path. The
// returned func releases it.
func acquireFileLock(path string) (func(), error) {
	lockPath := path + lockFileSuffix

	if err := os.MkdirAll(filepath.Dir(lockPath), lockDirPerm); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	for range lockMaxRetries {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, lockFilePerm)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}

		if removeStaleLock(lockPath, lockStaleAge) {
			continue
		}
		time.Sleep(lockRetryDelay)
	}

	return nil, fmt.Errorf("could not acquire lock on %s after retries", lockPath)
}

// Locker is implemented by stores that can hold their lockfile across a
// whole load, mutate and save cycle. Close releases the lock.
type Locker interface {
	Lock() error
}

// sessionLock holds the lockfile of path between Lock and Unlock. While it
// is held, acquire is a no-op so per-call locking does not deadlock.
type sessionLock struct {
	mu      sync.Mutex
	path    string
	release func()
}

func (l *sessionLock) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.release != nil {
		return nil
	}
	release, err := acquireFileLock(l.path)
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	l.release = release
	return nil
}

// acquire takes the lockfile for one operation unless the session holds it.
func (l *sessionLock) acquire() (func(), error) {
	l.mu.Lock()
	held := l.release != nil
	l.mu.Unlock()

	if held {
		return func() {}, nil
	}
	release, err := acquireFileLock(l.path)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}
	return release, nil
}

func (l *sessionLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.release != nil {
		l.release()
		l.release = nil
	}
}

// removeStaleLock removes lockPath if it is older than staleAge and its owner
// is gone. It reports whether the caller should retry immediately.
func removeStaleLock(lockPath string, staleAge time.Duration) bool {
	info, err := os.Stat(lockPath)
	if err != nil || time.Since(info.ModTime()) <= staleAge {
		return false
	}
	if isLockHeldByLiveProcess(lockPath) {
		return false
	}
	_ = os.Remove(lockPath)
	return true
}

func isLockHeldByLiveProcess(lockPath string) bool {
	data, err := os.ReadFile(lockPath)
	if err != nil || len(data) == 0 {
		return false
	}
	var pid int
	if _, scanErr := fmt.Sscanf(string(data), "%d", &pid); scanErr != nil || pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 only checks that the process exists.
	return proc.Signal(syscall.Signal(0)) == nil
}

// writeFileAtomic writes data to a temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmpPath := path + tempFileSuffix
	if err := os.WriteFile(tmpPath, data, stateFilePerm); err != nil {
		return fmt.Errorf("writing state temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming state temp file: %w", err)
	}
	return nil
}
