// Package logging provides structured logging for parsort runs.
//
// It wraps Go's log/slog with a JSON handler and carries persistent
// attributes (run, worker, phase) into every entry, so the interleaved output
// of the coordinator, the workers and the observer can be filtered after the
// fact.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/tmp/parsort", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	wlog := logger.WithWorker(3)
//	wlog.Debug("task finished", "level", 1, "index", 0)
//
// An empty directory logs to stderr. [NopLogger] discards everything and is
// what tests pass to components.
package logging
