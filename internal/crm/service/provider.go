package service

import "github.com/google/wire"

// ProviderSet is the Wire provider set for the service package.
var ProviderSet = wire.NewSet(
	NewServices,
	wire.Bind(new(AnalyticsInvalidator), new(*AnalyticsService)),
)
