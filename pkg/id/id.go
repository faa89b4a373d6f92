package id

import (
	"github.com/gofrs/uuid"
)

// GenTraceID new normal traceID
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// IsTraceID check if s is a uuid
func IsTraceID(s string) bool {
	_, err := uuid.FromString(s)
	return err == nil
}
