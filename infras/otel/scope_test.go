package otel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"travel/infras/otel"
)

func TestScope_TraceIfError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	createBooking := func(fail bool) (err error) {
		_, span := tracer.Start(t.Context(), "booking.Create")
		scope := otel.NewScope(span)
		defer scope.End()
		defer scope.TraceIfError(&err)

		scope.SetAttributes(map[string]any{"listing_id": "l-1", "nights": 3})

		if fail {
			return errors.New("These dates are not available")
		}

		return nil
	}

	assert.NoError(t, createBooking(false))
	assert.Error(t, createBooking(true))

	spans := recorder.Ended()
	assert.Len(t, spans, 2)

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "These dates are not available", spans[1].Status().Description)
	assert.Len(t, spans[1].Attributes(), 2)
}
