// Package main 提供转码回调 Runner 的独立进程入口，便于后台单独运行。
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/miravio/services-catalog/internal/infrastructure/configloader"
	encodingtasks "github.com/miravio/services-catalog/internal/tasks/encodings"

	"github.com/go-kratos/kratos/v2/log"

	_ "go.uber.org/automaxprocs"
)

type encodingsTaskApp struct {
	Runner *encodingtasks.Runner
	Logger log.Logger
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	params := configloader.Params{ConfPath: *confFlag}
	app, cleanup, err := wireEncodingsTask(ctx, params)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	logger := app.Logger
	if logger == nil {
		logger = log.NewStdLogger(os.Stdout)
	}
	helper := log.NewHelper(logger)

	if app.Runner == nil {
		helper.Warn("encodings runner disabled (missing messaging.encodings subscription configuration)")
		return
	}

	helper.Info("starting encode callback runner")

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		helper.Errorf("encodings runner stopped unexpectedly: %v", err)
		os.Exit(1)
	}

	helper.Info("encodings runner stopped")
}
