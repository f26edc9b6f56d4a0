package api

import (
	"context"
	"errors"
)

type keyType string

const (
	userIDKey    keyType = "userID"
	requestIDKey keyType = "requestID"
)

// ctxWithUserID adds the authenticated user's id to the context
func ctxWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user's id from the context
func ctxGetUserID(ctx context.Context) (uint, error) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return 0, errors.New("user id not found in context")
	}
	userID, ok := value.(uint)
	if !ok {
		return 0, errors.New("user id has unexpected type")
	}
	return userID, nil
}

// ctxWithRequestID adds a request id to the context
func ctxWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
