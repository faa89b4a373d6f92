package oracle

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type oracleService struct {
	config *core.Config
	params core.IParameterStore
}

// New new price oracle service
func New(cfg *core.Config, params core.IParameterStore) core.IPriceOracleService {
	return &oracleService{
		config: cfg,
		params: params,
	}
}

func (s *oracleService) Price(ctx context.Context, tx *db.DB) (decimal.Decimal, error) {
	v, err := s.params.Get(ctx, tx, core.ParameterOraclePrice)
	if err != nil {
		return decimal.Zero, err
	}

	if v == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(v)
}

// SetPrice overwrite the price, no bounds check beyond fixed-point validity
func (s *oracleService) SetPrice(ctx context.Context, tx *db.DB, caller string, price decimal.Decimal) error {
	if !s.config.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if err := core.RequireNonNegative(price); err != nil {
		return err
	}

	if err := s.params.Set(ctx, tx, core.ParameterOraclePrice, price.String()); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("params.Set", core.ParameterOraclePrice)
		return err
	}

	return nil
}
