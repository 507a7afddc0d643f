// Logging: a bitmask-tagged logger in the same shape as reposurgeon's
// Control.logmask/logit/logEnable/croak (surgeon/reposurgeon.go), backed by
// a rotating file writer instead of the teacher's interactive baton — this
// bridge runs unattended from cron/a scheduler, not from a terminal REPL.

package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Log tag bitmask, in the spirit of reposurgeon's logTAG constants.
const (
	logSHOUT uint = 1 << iota
	logWARN
	logCOMMANDS
	logSYNC
	logCLASSIFY
	logRECONCILE
)

// defaultLogMask enables shout/warn/sync/reconcile by default; logCOMMANDS
// and logCLASSIFY are verbose and opt-in, mirroring reposurgeon's
// (logWARN<<1)-1 startup mask which enables everything below WARN.
const defaultLogMask = logSHOUT | logWARN | logSYNC | logRECONCILE

type bridgeLog struct {
	mu     sync.Mutex
	mask   uint
	writer io.Writer
}

var logger = &bridgeLog{mask: defaultLogMask, writer: os.Stderr}

// configureLogging points the logger at a rotating file, the lumberjack
// counterpart of the Python original's RotatingFileHandler(maxBytes=130000,
// backupCount=1): one backup is kept, but lumberjack sizes in whole
// megabytes, so the file rotates at 1 MB rather than 130000 bytes.
func configureLogging(path string, mask uint) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if path != "" {
		logger.writer = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    1, // megabytes; smallest unit lumberjack accepts
			MaxBackups: 1,
			Compress:   false,
		}
	}
	logger.mask = mask
}

func logEnable(tag uint) bool {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return logger.mask&tag != 0
}

// logit writes a timestamped message when tag is enabled in the current
// mask, and drops it otherwise; callers need no logEnable check of their own.
func logit(tag uint, format string, args ...interface{}) {
	if !logEnable(tag) {
		return
	}
	content := fmt.Sprintf(format, args...)
	logger.mu.Lock()
	defer logger.mu.Unlock()
	fmt.Fprintf(logger.writer, "%s: %s\n", time.Now().Format(time.RFC3339), content)
}
