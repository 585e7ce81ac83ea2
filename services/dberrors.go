package services

import (
	"errors"
	"fmt"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// IsDuplicateKey reports a MySQL unique index violation (error 1062).
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// dbError maps gorm and driver errors onto the service error kinds.
func dbError(err error, resource string, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(resource, id)
	case IsDuplicateKey(err):
		return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf("%s already exists", resource)}
	}
	return err
}
