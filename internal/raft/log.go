package raft

import (
	"bytes"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapWriter forwards the line-oriented output of hashicorp/raft to zap,
// keeping the level from the "[LEVEL]" marker each line carries.
type zapWriter struct {
	logger *zap.Logger
}

var lineLevels = []struct {
	marker []byte
	level  zapcore.Level
}{
	{[]byte("[ERROR]"), zapcore.ErrorLevel},
	{[]byte("[ERR]"), zapcore.ErrorLevel},
	{[]byte("[WARN]"), zapcore.WarnLevel},
	{[]byte("[INFO]"), zapcore.InfoLevel},
	{[]byte("[DEBUG]"), zapcore.DebugLevel},
	{[]byte("[TRACE]"), zapcore.DebugLevel},
}

func lineLevel(line []byte) zapcore.Level {
	for _, l := range lineLevels {
		if bytes.Contains(line, l.marker) {
			return l.level
		}
	}
	return zapcore.InfoLevel
}

func (w *zapWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if ce := w.logger.Check(lineLevel(line), string(line)); ce != nil {
			ce.Write()
		}
	}
	return len(p), nil
}
