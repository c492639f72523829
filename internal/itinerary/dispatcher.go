package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultTimeout = 30 * time.Second

var tracer = otel.Tracer("github.com/joelkehle/trek-itinerary/internal/itinerary")

type Options struct {
	// Timeout bounds each outbound request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Dispatcher turns preference form submissions into itinerary requests and
// renders exactly one outcome per submission. Only the latest submission's
// outcome is shown; earlier ones that resolve later are discarded.
type Dispatcher struct {
	location string
	gen      Generator
	out      Output
	timeout  time.Duration

	seq      atomic.Uint64
	renderMu sync.Mutex
}

// NewDispatcher reads the stored location once from session. A missing
// location is the empty string.
func NewDispatcher(session SessionReader, gen Generator, out Output, opts Options) *Dispatcher {
	location := ""
	if session != nil {
		if v, ok := session.Get(LocationKey); ok {
			location = v
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		location: location,
		gen:      gen,
		out:      out,
		timeout:  timeout,
	}
}

func (d *Dispatcher) Location() string {
	return d.location
}

// SubmitForm is Submit with filters and comments taken from form values.
func (d *Dispatcher) SubmitForm(ctx context.Context, form url.Values) Outcome {
	filters, comments := FormFromValues(form)
	return d.Submit(ctx, filters, comments)
}

// Submit sends one itinerary request and renders its outcome.
func (d *Dispatcher) Submit(ctx context.Context, filters Filters, comments string) Outcome {
	seq := d.seq.Add(1)
	ctx, span := tracer.Start(ctx, "itinerary.dispatch")
	defer span.End()
	span.SetAttributes(attribute.Int64("itinerary.seq", int64(seq)))

	outcome := Outcome{Seq: seq}
	text, err := d.generate(ctx, BuildRequest(d.location, filters, comments))
	if err != nil {
		log.Printf("itinerary request %d failed: %v", seq, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "itinerary request failed")
		outcome.Text = FailureMessage
		outcome.Failed = true
	} else {
		outcome.Text = text
	}

	d.renderMu.Lock()
	defer d.renderMu.Unlock()
	if d.seq.Load() != seq {
		outcome.Stale = true
		log.Printf("discarding stale itinerary response %d", seq)
		return outcome
	}
	if d.out != nil {
		d.out.Show(outcome)
	}
	return outcome
}

func (d *Dispatcher) generate(ctx context.Context, req Request) (text string, err error) {
	if d.gen == nil {
		return "", errors.New("no itinerary generator configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("itinerary generator panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.gen.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Reply == nil {
		if resp.Error != "" {
			return "", fmt.Errorf("itinerary service error: %s", resp.Error)
		}
		// A reply-less success body renders empty.
		return "", nil
	}
	return *resp.Reply, nil
}
