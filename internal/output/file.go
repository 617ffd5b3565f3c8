package output

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// AppendToFile appends the rendered report to path, taking an advisory lock
// so concurrent bench invocations sharing a results file don't interleave
// writes.
func AppendToFile(path string, rep Report, format string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock results file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	if err := Render(f, rep, format); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	_, err = fmt.Fprintln(f)
	return err
}
