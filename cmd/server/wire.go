//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/controllers"
	configloader "github.com/miravio/services-catalog/internal/infrastructure/configloader"
	"github.com/miravio/services-catalog/internal/infrastructure/database"
	"github.com/miravio/services-catalog/internal/repositories"
	"github.com/miravio/services-catalog/internal/server"
	"github.com/miravio/services-catalog/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

// wireApp init kratos application.
func wireApp(context.Context, *configloader.Bundle, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		database.ProviderSet,
		txmanager.ProviderSet,
		bunny.ProviderSet,
		repositories.ProviderSet,
		services.ProviderSet,
		controllers.ProviderSet,
		server.NewTelemetry,
		server.NewHTTPServer,
		newApp,
	))
}
