// Package logger builds log/slog loggers and provides attribute helpers for
// the keys used across the service.
//
//	log := logger.New(
//		logger.WithProduction("simplecdn"),
//		logger.WithLevel(slog.LevelInfo),
//	)
//	log.Info("file saved", logger.Component("storage"), logger.FilePath(rel), logger.Size(n))
//
// Helpers that receive a zero value (nil error, empty id) return an empty
// slog.Attr, which slog drops.
package logger
