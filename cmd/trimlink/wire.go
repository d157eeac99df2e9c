//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"trimlink/internal/analytics/enrichment"
	"trimlink/internal/biz"
	"trimlink/internal/conf"
	"trimlink/internal/data"
	"trimlink/internal/server"
	"trimlink/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Link, *conf.Analytics, *conf.Auth, *conf.Assets, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		data.ProviderSet,
		enrichment.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		newApp,
	))
}
