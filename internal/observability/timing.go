package observability

import (
	"io"
	"log"
	"time"
)

// Time logs the duration of an operation when the returned func runs.
// Pass a pointer to the operation's named error to have failures logged.
//
//	defer observability.Time(logger, "load dataset")(&err)
func Time(logger *log.Logger, name string) func(errp *error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		if errp != nil && *errp != nil {
			logger.Printf("op=%q dur=%dms err=%v", name, dur.Milliseconds(), *errp)
			return
		}
		logger.Printf("op=%q dur=%dms", name, dur.Milliseconds())
	}
}

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
