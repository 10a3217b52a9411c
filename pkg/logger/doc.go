// Package logger builds slog loggers whose handlers inject request-scoped
// attributes from context.
//
// The isolation pipeline leans on this: registering tenant.LoggerExtractor
// and requestid.LoggerExtractor makes every log record emitted during a
// request carry the bound tenant id and correlation id without any handler
// passing them explicitly.
//
//	log := logger.New(
//		logger.WithProduction("storekit"),
//		logger.WithContextExtractors(
//			tenant.LoggerExtractor(),
//			requestid.LoggerExtractor(),
//		),
//	)
//	logger.SetAsDefault(log)
package logger
