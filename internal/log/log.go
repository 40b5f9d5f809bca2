package logger

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// The run log goes to a file so stdout stays free for the progress view.
const LogFileName = "orgclone.log"

var Log = logrus.New()

func InitLogger(verbose bool) {
	file, err := os.OpenFile(GetLogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.Fatalf("Failed to open log file: %v", err)
	}
	Log.SetOutput(file)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if verbose {
		Log.SetLevel(logrus.DebugLevel)
		Log.Debugln("Verbose (debug) logging enabled")
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

func GetLogFilePath() string {
	path, err := filepath.Abs(LogFileName)
	if err != nil {
		return LogFileName
	}
	return path
}
