package main

import (
	"github.com/Garik-/smfnotes/pkg/midi"
	"go.uber.org/zap"
)

var rootLog = zap.NewNop()
var scanLog = zap.NewNop()
var serveLog = zap.NewNop()

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func enableLogging(l *zap.Logger, debug bool) {
	rootLog = l
	scanLog = l.Named("scan")
	serveLog = l.Named("serve")

	if debug {
		midi.EnableDebugLogging(l.Named("midi"))
	}
}
