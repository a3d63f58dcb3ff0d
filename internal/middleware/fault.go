package middleware

import (
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/google/uuid"
)

// FaultIDHeader carries the id of an injected failure so it can be found in the logs
const FaultIDHeader = "X-Fault-Id"

// FaultInjector decides whether a request should be failed on purpose
type FaultInjector interface {
	ShouldFail(r *http.Request) bool
}

// FaultInjectorFunc adapts a plain function to FaultInjector
type FaultInjectorFunc func(r *http.Request) bool

func (f FaultInjectorFunc) ShouldFail(r *http.Request) bool { return f(r) }

// NoFaults never fails a request
var NoFaults FaultInjector = FaultInjectorFunc(func(*http.Request) bool { return false })

// RandomFaultInjector fails a share of requests equal to Rate.
// A request fails when a uniform draw in [0,1) exceeds 1-Rate,
// so the default rate of 0.1 fails draws above 0.9.
type RandomFaultInjector struct {
	Rate float64

	// Float64 returns the draw; defaults to math/rand/v2
	Float64 func() float64
}

// NewRandomFaultInjector creates an injector failing the given share of requests
func NewRandomFaultInjector(rate float64) *RandomFaultInjector {
	return &RandomFaultInjector{Rate: rate, Float64: rand.Float64}
}

// ShouldFail draws a random value and compares it to the threshold
func (i *RandomFaultInjector) ShouldFail(r *http.Request) bool {
	if i.Rate <= 0 {
		return false
	}
	if i.Rate >= 1 {
		return true
	}

	draw := i.Float64
	if draw == nil {
		draw = rand.Float64
	}
	return draw() > 1-i.Rate
}

// FaultInjection short-circuits requests chosen by the injector with a bare 500
func FaultInjection(injector FaultInjector, logger *slog.Logger) func(next http.Handler) http.Handler {
	if injector == nil {
		injector = NoFaults
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !injector.ShouldFail(r) {
				next.ServeHTTP(w, r)
				return
			}

			faultID := uuid.NewString()
			logger.Warn("injected fault",
				"fault_id", faultID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set(FaultIDHeader, faultID)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	}
}
