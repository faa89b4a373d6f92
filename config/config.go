package config

import (
	"fmt"

	"lending/core"
	"lending/pkg/concurrency"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

const (
	defaultCollateralRatio = 150
	defaultAuthCacheSize   = 1024
	defaultCashierBatch    = 100
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDING")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	Default(config)
	return Validate(config)
}

// Validate check the struct tags and the ledger parameters
func Validate(config *core.Config) error {
	if _, err := govalidator.ValidateStruct(config); err != nil {
		return err
	}

	if config.IsAdmin(config.App.EngineID) {
		return fmt.Errorf("app.engine_id: %s must not be an admin", config.App.EngineID)
	}

	if config.App.CollateralRatio <= 0 {
		return fmt.Errorf("app.collateral_ratio: must be positive, got %d", config.App.CollateralRatio)
	}

	if bps := config.App.InterestRate(); bps < 0 {
		return fmt.Errorf("app.interest_rate_bps: must not be negative, got %d", bps)
	}

	return nil
}

// Default fill the unset ledger and worker settings
func Default(config *core.Config) {
	if config.App.CollateralRatio == 0 {
		config.App.CollateralRatio = defaultCollateralRatio
	}

	if config.App.InterestRateBps == nil {
		bps := core.DefaultInterestRateBps
		config.App.InterestRateBps = &bps
	}

	if config.App.LiquidationPolicy == "" {
		config.App.LiquidationPolicy = core.LiquidationAbsorb
	}

	if config.App.LaneSize <= 0 {
		config.App.LaneSize = concurrency.DefaultMax
	}

	if config.Auth.CacheSize <= 0 {
		config.Auth.CacheSize = defaultAuthCacheSize
	}

	if config.Cashier.Batch <= 0 {
		config.Cashier.Batch = defaultCashierBatch
	}

	if config.Cashier.Capacity <= 0 {
		config.Cashier.Capacity = 1
	}
}
