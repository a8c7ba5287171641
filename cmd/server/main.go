// Package main boots the catalog admin HTTP entrypoint.
package main

import (
	"context"
	"flag"
	"time"

	configloader "github.com/miravio/services-catalog/internal/infrastructure/configloader"
	loginfra "github.com/miravio/services-catalog/internal/infrastructure/logger"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

func newApp(meta configloader.ServiceMetadata, logger log.Logger, hs *khttp.Server) *kratos.App {
	return kratos.New(
		kratos.ID(meta.InstanceID),
		kratos.Name(meta.Name),
		kratos.Version(meta.Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
		),
	)
}

func main() {
	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	bundle, err := configloader.Build(configloader.Params{ConfPath: *confFlag})
	if err != nil {
		panic(err)
	}

	logger, err := loginfra.NewLogger(bundle.Service)
	if err != nil {
		panic(err)
	}

	obsShutdown, err := observability.Init(context.Background(), bundle.ObsConfig,
		observability.WithLogger(logger),
		observability.WithServiceName(bundle.Service.Name),
		observability.WithServiceVersion(bundle.Service.Version),
		observability.WithEnvironment(bundle.Service.Environment),
	)
	if err != nil {
		panic(err)
	}
	defer func() {
		if obsShutdown == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obsShutdown(ctx); err != nil {
			log.NewHelper(logger).Warnf("shutdown observability: %v", err)
		}
	}()

	app, cleanup, err := wireApp(context.Background(), bundle, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
