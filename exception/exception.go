package exception

import (
	"os"
	"runtime/debug"

	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/monitoring"
)

// SafeGo runs fn on a new goroutine and absorbs any panic, so a failing
// subscriber or background loop cannot take the node down.
func SafeGo(name string, fn func()) {
	go guarded(name, fn, false)
}

// SafeGoWithPanic runs fn on a new goroutine and exits the process when fn
// panics. Listener goroutines use this: the node must not keep running
// without its servers.
func SafeGoWithPanic(name string, fn func()) {
	go guarded(name, fn, true)
}

func guarded(name string, fn func(), fatal bool) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.IncreasePanicCount()
			logx.Error("PANIC", name, r, string(debug.Stack()))
			if fatal {
				os.Exit(1)
			}
		}
	}()
	fn()
}
