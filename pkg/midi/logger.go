package midi

import "go.uber.org/zap"

var treeLog = zap.NewNop()
var decoderLog = zap.NewNop()

// EnableDebugLogging routes the package loggers to l. Call it before decoding starts.
func EnableDebugLogging(l *zap.Logger) {
	treeLog = l.Named("tree")
	decoderLog = l.Named("decoder")
}
