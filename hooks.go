package dynafetch

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	OperationNameKey contextKey = 1 + iota
)

var defaultHooks = &StoreHooks{}

// StoreHooks is a container for callbacks that can instrument the datastore
type StoreHooks struct {
	// RequestBuilt will be invoked prior to dispatching the request to the AWS SDK
	RequestBuilt func(ctx context.Context, params interface{}) context.Context
}

func (sh *StoreHooks) requestBuilt(ctx context.Context, params interface{}) context.Context {
	if sh == nil || sh.RequestBuilt == nil {
		return ctx
	}

	return sh.RequestBuilt(ctx, params)
}

// LoggingHooks hooks which log each request at debug level, the logger is attached
// to the returned context so the SDK call can be traced back.
func LoggingHooks(logger zerolog.Logger) *StoreHooks {
	return &StoreHooks{
		RequestBuilt: func(ctx context.Context, params interface{}) context.Context {
			logger.Debug().Str("operation", OperationName(ctx)).Interface("params", params).Msg("request built")

			return logger.WithContext(ctx)
		},
	}
}

// OperationName extracts the name of the operation being handled in the given
// context. If it is not known, it returns ("").
func OperationName(ctx context.Context) string {
	name, _ := ctx.Value(OperationNameKey).(string)
	return name
}

func setOperationName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, OperationNameKey, name)
}
