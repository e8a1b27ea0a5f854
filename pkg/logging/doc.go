// Package logging provides structured logging configuration for pactkit.
//
// It wraps log/slog so every component logs the same way. Components accept a
// *slog.Logger through an option; when none is given they use Nop().
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	cs := controlserver.New(controlserver.WithLogger(logger))
//
// Session loggers carry the session ID and the consumer/provider pair so the
// output of concurrently running sessions can be told apart.
package logging
