//go:build wireinject
// +build wireinject

// Package main 为 outbox 任务 CLI 提供 Wire 依赖注入定义。
package main

import (
	"context"
	"fmt"

	configloader "github.com/miravio/services-catalog/internal/infrastructure/configloader"
	"github.com/miravio/services-catalog/internal/infrastructure/database"
	loginfra "github.com/miravio/services-catalog/internal/infrastructure/logger"
	"github.com/miravio/services-catalog/internal/repositories"
	outboxtasks "github.com/miravio/services-catalog/internal/tasks/outbox"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

func wireOutboxTask(context.Context, configloader.Params) (*outboxTaskApp, func(), error) {
	panic(wire.Build(
		configloader.Build,
		configloader.ProviderSet,
		configloader.ProvideEventsPubSubConfig,
		loginfra.ProviderSet,
		database.ProviderSet,
		wire.Struct(new(gcpubsub.Dependencies), "Logger"),
		gcpubsub.NewComponent,
		gcpubsub.ProvidePublisher,
		repositories.NewOutboxRepository,
		outboxtasks.ProvideRunner,
		newOutboxTaskApp,
	))
}

func newOutboxTaskApp(logger log.Logger, runner *outboxpublisher.Runner) (*outboxTaskApp, error) {
	if runner == nil {
		return &outboxTaskApp{Logger: logger}, nil
	}
	if logger == nil {
		return nil, fmt.Errorf("logger not initialized")
	}
	return &outboxTaskApp{
		Runner: runner,
		Logger: logger,
	}, nil
}
