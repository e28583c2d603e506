package providers

import (
	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/auth"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/logger"
	"github.com/istdurstig/istdurstig-server/internal/service"
	"github.com/istdurstig/istdurstig-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAccessResolver provides the plant visibility resolver.
func ProvideAccessResolver(i do.Injector) (*service.AccessResolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clk := do.MustInvoke[clock.Clock](i)

	return service.NewAccessResolver(storeHandle.Store, storeHandle.Store, clk), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	clk := do.MustInvoke[clock.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, auth.DefaultHashParams, validator, clk, log.Logger), nil
}

// ProvideUserService provides the user lookup service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return service.NewUserService(storeHandle.Store), nil
}

// ProvidePlantService provides the plant service.
func ProvidePlantService(i do.Injector) (*service.PlantService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	access := do.MustInvoke[*service.AccessResolver](i)
	validator := do.MustInvoke[*validation.Validator](i)
	clk := do.MustInvoke[clock.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlantService(storeHandle.Store, storeHandle.Store, access, indexHandle.PlantIndex, validator, clk, log.Logger), nil
}

// ProvidePlantListService provides the plant list service.
func ProvidePlantListService(i do.Injector) (*service.PlantListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	clk := do.MustInvoke[clock.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlantListService(storeHandle.Store, storeHandle.Store, storeHandle.Store, validator, clk, log.Logger), nil
}
