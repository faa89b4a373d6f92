package core

import "github.com/fox-one/pkg/store/db"

// Transactor runs fn inside one storage transaction. Stores receive the
// transaction handle; a nil handle means "outside any transaction".
type Transactor interface {
	Tx(fn func(tx *db.DB) error) error
}
