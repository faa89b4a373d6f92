package core

import "time"

// Clock time source for interest accrual
type Clock interface {
	Now() time.Time
}
