package common

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/status-im/walletconnect-core/logutils"
)

// IsNil reports whether i is nil or an interface holding a nil pointer.
func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}
	switch reflect.TypeOf(i).Kind() {
	case reflect.Ptr, reflect.Interface:
		return reflect.ValueOf(i).IsNil()
	}
	return false
}

func LogOnPanic() {
	if err := recover(); err != nil {
		logutils.ZapLogger().Error("panic in goroutine", zap.Any("error", err), zap.Stack("stacktrace"))
		panic(err)
	}
}
