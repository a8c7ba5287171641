//go:build wireinject
// +build wireinject

// Package main 为 encodings 任务 CLI 提供 Wire 依赖注入定义。
package main

import (
	"context"
	"fmt"

	"github.com/miravio/services-catalog/internal/clients/bunny"
	configloader "github.com/miravio/services-catalog/internal/infrastructure/configloader"
	"github.com/miravio/services-catalog/internal/infrastructure/database"
	loginfra "github.com/miravio/services-catalog/internal/infrastructure/logger"
	"github.com/miravio/services-catalog/internal/repositories"
	encodingtasks "github.com/miravio/services-catalog/internal/tasks/encodings"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

func wireEncodingsTask(context.Context, configloader.Params) (*encodingsTaskApp, func(), error) {
	panic(wire.Build(
		configloader.Build,
		configloader.ProviderSet,
		configloader.ProvideEncodingsPubSubConfig,
		configloader.ProvideEncodingSubscriber,
		loginfra.ProviderSet,
		database.ProviderSet,
		txmanager.ProviderSet,
		bunny.ProviderSet,
		wire.Struct(new(gcpubsub.Dependencies), "Logger"),
		gcpubsub.NewComponent,
		gcpubsub.ProvideSubscriber,
		repositories.NewAssetRepository,
		repositories.NewInboxRepository,
		repositories.NewOutboxRepository,
		encodingtasks.ProvideRunner,
		newEncodingsTaskApp,
	))
}

func newEncodingsTaskApp(logger log.Logger, runner *encodingtasks.Runner) (*encodingsTaskApp, error) {
	if runner == nil {
		return &encodingsTaskApp{Logger: logger}, nil
	}
	if logger == nil {
		return nil, fmt.Errorf("logger not initialized")
	}
	return &encodingsTaskApp{
		Runner: runner,
		Logger: logger,
	}, nil
}
