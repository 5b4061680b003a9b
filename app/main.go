package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
)

var opts struct {
	Server ServerCmd `command:"server" description:"run theme http server"`
	Toggle ToggleCmd `command:"toggle" description:"toggle dark mode and persist it"`
	Select SelectCmd `command:"select" description:"select a theme from the allow-list"`
	Show   ShowCmd   `command:"show" description:"show current mode"`
	Reset  ResetCmd  `command:"reset" description:"drop the stored theme"`
	Schema SchemaCmd `command:"schema" description:"print json schema of the themes file"`
}

var revision = "unknown"

func main() {
	p := flags.NewParser(&opts, flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Printf("themer %s\n", revision)
			p.WriteHelp(os.Stderr)
			os.Exit(2)
		}
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func setupLogs(debug bool) {
	log.Setup(log.Msec)
	if debug {
		log.Setup(log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			switch sig {
			case syscall.SIGQUIT:
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
			case syscall.SIGTERM, syscall.SIGINT:
				cancel()
			}
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
