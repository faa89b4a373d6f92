package parameter

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type parameterStore struct {
	db *db.DB
}

// New new parameter store
func New(db *db.DB) core.IParameterStore {
	return &parameterStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Parameter{})
		if err := tx.AutoMigrate(core.Parameter{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *parameterStore) conn(tx *db.DB) *gorm.DB {
	if tx != nil {
		return tx.Update()
	}

	return s.db.View()
}

func (s *parameterStore) Get(ctx context.Context, tx *db.DB, name string) (string, error) {
	var p core.Parameter
	if err := s.conn(tx).Where("name = ?", name).First(&p).Error; err != nil {
		if store.IsErrNotFound(err) {
			return "", nil
		}

		return "", err
	}

	return p.Value, nil
}

func (s *parameterStore) Set(ctx context.Context, tx *db.DB, name, value string) error {
	p := core.Parameter{Name: name}
	return tx.Update().Where("name = ?", name).
		Assign(core.Parameter{Value: value}).
		FirstOrCreate(&p).Error
}
