package core

import (
	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
)

const (
	// DefaultInterestRateBps deposit rate used until an admin sets one, 5%
	DefaultInterestRateBps int64 = 500

	// LiquidationAbsorb the protocol writes the debt off, the liquidator only takes the collateral
	LiquidationAbsorb = "absorb"
	// LiquidationRepay the liquidator repays the whole debt in exchange for the collateral
	LiquidationRepay = "repay"
)

type (
	// Config app config
	Config struct {
		App     App       `json:"app"`
		DB      db.Config `json:"db"`
		Admins  []string  `json:"admins"`
		Auth    Auth      `json:"auth"`
		Custody Custody   `json:"custody"`
		Cashier Cashier   `json:"cashier"`
	}

	// App ledger parameters fixed at wiring time
	App struct {
		// EngineID identity of the loan engine, the only account allowed to mint and burn
		EngineID string `json:"engine_id" valid:"required"`
		// CollateralRatio required collateral per unit of debt, in percent
		CollateralRatio int64 `json:"collateral_ratio"`
		// InterestRateBps initial deposit rate, nil means DefaultInterestRateBps and zero is a valid rate
		InterestRateBps   *int64 `json:"interest_rate_bps"`
		LiquidationPolicy string `json:"liquidation_policy" valid:"in(absorb|repay)"`
		LaneSize          int    `json:"lane_size"`
	}

	// Auth bearer token settings
	Auth struct {
		Secret    string `json:"secret"`
		CacheSize int    `json:"cache_size"`
	}

	// Custody base asset payout endpoint
	Custody struct {
		Endpoint string `json:"endpoint" valid:"url,optional"`
		Token    string `json:"token"`
	}

	// Cashier payout worker settings
	Cashier struct {
		Batch    int    `json:"batch"`
		Capacity int64  `json:"capacity"`
		Schedule string `json:"schedule"`
	}
)

// InterestRate configured initial deposit rate in basis points
func (a App) InterestRate() int64 {
	if a.InterestRateBps == nil {
		return DefaultInterestRateBps
	}

	return *a.InterestRateBps
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	return userID != "" && govalidator.IsIn(userID, c.Admins...)
}
