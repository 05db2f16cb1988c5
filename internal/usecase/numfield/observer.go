package numfield

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
)

// Observer receives advisory events. It is called synchronously.
type Observer func(f field.Config, msg string)

// LogObserver writes advisory events as debug lines.
func LogObserver(logger *zap.Logger) Observer {
	return func(f field.Config, msg string) {
		logger.Debug(msg,
			zap.String("field", f.Name()),
			zap.String("domain", f.Domain().String()),
		)
	}
}

func withField(err error, f field.Config) error {
	return domain.WithField(err, f.Name())
}
