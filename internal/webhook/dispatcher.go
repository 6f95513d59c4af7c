// Package webhook delivers clearance events to an external endpoint with
// HMAC-signed payloads. Delivery is asynchronous: events are queued on a
// buffered channel and a single worker drains it, so check handlers never
// block on the network.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lawtocode/clearance/internal/telemetry"
)

const (
	// queueSize is the buffer size for the event queue
	queueSize = 1000

	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// Dispatcher manages webhook event delivery to a single configured
// endpoint.
type Dispatcher struct {
	endpoint Endpoint
	client   *http.Client
	queue    chan Event
	done     chan struct{}

	mu     sync.RWMutex // guards closed and the queue send against Close
	closed bool
}

// NewDispatcher creates a dispatcher for the given endpoint. A nil
// dispatcher is returned when no URL is configured; its methods are
// no-ops, so callers need no conditional wiring.
func NewDispatcher(endpoint Endpoint) *Dispatcher {
	if endpoint.URL == "" {
		return nil
	}
	return &Dispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		queue:    make(chan Event, queueSize),
		done:     make(chan struct{}),
	}
}

// Start begins processing events from the queue.
func (d *Dispatcher) Start() {
	if d == nil {
		return
	}
	go d.worker()
}

// Close gracefully shuts down the dispatcher: it closes the queue and
// waits for pending deliveries to finish. Safe to call multiple times,
// and concurrent Dispatch calls drop their events instead of panicking
// on the closed queue.
func (d *Dispatcher) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
	return nil
}

// Dispatch queues an event for delivery. Non-blocking: when the queue is
// full or the dispatcher is already closed the event is dropped with a
// log line rather than slowing the caller down.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("[webhook] dispatcher closed, dropping event: type=%s hash=%s",
			event.Type, event.ProofHash)
		telemetry.WebhookDeliveries.WithLabelValues("dropped").Inc()
		return
	}
	select {
	case d.queue <- event:
	default:
		log.Printf("[webhook] queue full (size=%d), dropping event: type=%s hash=%s",
			queueSize, event.Type, event.ProofHash)
		telemetry.WebhookDeliveries.WithLabelValues("dropped").Inc()
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for event := range d.queue {
		d.deliverWithRetry(context.Background(), event)
	}
}

// deliverWithRetry attempts delivery with exponential backoff.
func (d *Dispatcher) deliverWithRetry(ctx context.Context, event Event) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * initialBackoff
			time.Sleep(backoff)
		}
		if err := d.deliver(ctx, event); err != nil {
			log.Printf("[webhook] delivery failed (attempt %d/%d): type=%s url=%s error=%v",
				attempt+1, maxAttempts, event.Type, d.endpoint.URL, err)
			continue
		}
		telemetry.WebhookDeliveries.WithLabelValues("success").Inc()
		return
	}
	telemetry.WebhookDeliveries.WithLabelValues("failure").Inc()
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Clearance-Delivery", uuid.NewString())
	req.Header.Set("X-Clearance-Event", event.Type)
	if d.endpoint.Secret != "" {
		req.Header.Set("X-Clearance-Signature", ComputeHMAC(payload, d.endpoint.Secret))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{Status: resp.StatusCode}
	}
	return nil
}

// DeliveryError reports a non-2xx response from the webhook endpoint.
type DeliveryError struct {
	Status int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.Status)
}
