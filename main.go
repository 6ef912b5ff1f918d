package main

import (
	"os"
	"runtime/debug"

	"github.com/ch0002ic/creatorcoin-ai/cmd"
	"github.com/ch0002ic/creatorcoin-ai/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("LEDGER NODE CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
