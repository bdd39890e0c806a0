package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "BOOSTEAM_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether binaries should skip startup side effects. The
// flag is read once per process.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}
