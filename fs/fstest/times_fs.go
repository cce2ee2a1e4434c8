package fstest

import (
	"errors"
	"testing"
	"time"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// testTime is a fixed instant truncated to whole seconds so every backend
// can round-trip it.
var testTime = time.Date(2018, time.August, 21, 0, 14, 0, 0, time.UTC)

// TestTimesFSWithConfig tests Chtimes. Providers returning core.ErrUnsupported
// are skipped.
func TestTimesFSWithConfig(t *testing.T, area core.TransferArea, config FSTestConfig) {
	writeFile(t, area, "times/file.txt", []byte("x"))

	t.Run("Chtimes", func(t *testing.T) {
		if config.skip(t, "TimesFS/Chtimes") {
			return
		}
		err := area.Chtimes("times/file.txt", testTime, testTime)
		if errors.Is(err, core.ErrUnsupported) {
			t.Skip("Chtimes not supported by provider")
		}
		if err != nil {
			t.Fatalf("Chtimes(%q): got error %v, want nil", "times/file.txt", err)
		}
		info, err := area.Stat("times/file.txt")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "times/file.txt", err)
		}
		if !info.ModTime().Equal(testTime) {
			t.Errorf("Stat(%q).ModTime() = %v, want %v", "times/file.txt", info.ModTime().UTC(), testTime)
		}
	})

	t.Run("ChtimesMissing", func(t *testing.T) {
		if config.skip(t, "TimesFS/ChtimesMissing") {
			return
		}
		err := area.Chtimes("times/missing.txt", testTime, testTime)
		if err == nil {
			t.Errorf("Chtimes(%q): got nil, want error", "times/missing.txt")
		}
	})
}
