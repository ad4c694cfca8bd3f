package identityctx

import (
	"context"

	"github.com/nkiryanov/mimiplus/internal/models"
)

type ctxKey string

const (
	identityKey ctxKey = "identity"
	recorderKey ctxKey = "identity_recorder"
)

// Keeps the identity resolved deeper in the handler chain
// so outer middlewares can see who made the request
type Recorder struct {
	identity models.Identity
	ok       bool
}

func (r *Recorder) Identity() (models.Identity, bool) {
	return r.identity, r.ok
}

// Create a new context with the caller identity
// The identity is also reported to the recorder if the context has one
func New(ctx context.Context, identity models.Identity) context.Context {
	if rec, ok := ctx.Value(recorderKey).(*Recorder); ok {
		rec.identity, rec.ok = identity, true
	}
	return context.WithValue(ctx, identityKey, identity)
}

// Extract the caller identity from the context
func FromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey, rec), rec
}
