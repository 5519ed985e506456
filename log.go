package latfix

import (
	"io"

	"github.com/sirupsen/logrus"
)

// defaultLogger discards everything; callers that care about the loop's
// progress supply their own logger via WithLogger.
func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
