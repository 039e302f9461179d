package consumer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func TestResultHandler_Handle(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStored  int
		wantDLQSent int
	}{
		{name: "success", err: nil, wantStored: 1},
		{name: "skip", err: fmt.Errorf("unknown event: %w", ErrSkipMessage), wantStored: 1},
		{name: "permanent", err: fmt.Errorf("%w: bad payload", ErrPermanent), wantStored: 1, wantDLQSent: 1},
		{name: "retries exhausted", err: errors.New("max retry attempts reached"), wantStored: 1, wantDLQSent: 1},
		{name: "shutdown", err: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storer := &fakeOffsetStorer{}
			dlq := &fakeDLQ{}
			h := newResultHandler(zap.NewNop(), dlq, storer)
			_, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "test")

			err := h.handle(context.Background(), tt.err, testMessage("reservation.events"), span)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStored, storer.count())
			assert.Equal(t, tt.wantDLQSent, dlq.count())
		})
	}
}

func TestResultHandler_StoreOffsetErrorIsLogged(t *testing.T) {
	storer := &fakeOffsetStorer{err: errors.New("not assigned")}
	h := newResultHandler(zap.NewNop(), &fakeDLQ{}, storer)
	_, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "test")

	assert.NotPanics(t, func() {
		_ = h.handle(context.Background(), nil, testMessage("reservation.events"), span)
	})
	assert.Equal(t, 1, storer.count())
}

func TestResultHandler_UndeliveredMessageKeepsOffset(t *testing.T) {
	tracer := newMessageTracer(noop.NewTracerProvider())
	failures := []struct {
		name string
		err  error
	}{
		{name: "retries exhausted", err: errors.New("max retry attempts reached: mongo down")},
		{name: "permanent", err: fmt.Errorf("%w: device store rejected write", ErrPermanent)},
	}
	dlqs := []struct {
		name string
		dlq  DLQHandler
	}{
		{name: "dlq produce fails", dlq: newDLQHandler(&fakeProducer{err: errors.New("dlq topic unavailable")}, "reservation.events.dlq", tracer, zap.NewNop())},
		{name: "dlq disabled", dlq: newNoopDLQHandler(zap.NewNop())},
	}

	for _, f := range failures {
		for _, d := range dlqs {
			t.Run(f.name+"/"+d.name, func(t *testing.T) {
				storer := &fakeOffsetStorer{}
				h := newResultHandler(zap.NewNop(), d.dlq, storer)
				_, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "test")

				err := h.handle(context.Background(), f.err, testMessage("reservation.events"), span)

				assert.ErrorIs(t, err, ErrNotDelivered)
				assert.Zero(t, storer.count())
			})
		}
	}
}
