package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.3.1
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // set via -ldflags in release builds
	GoVersion = runtime.Version()
)
