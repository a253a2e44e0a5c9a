package comm

import (
	"os"
	"time"
)

// overridden in tests
var (
	timeNow = time.Now
	exit    = os.Exit
)
