package logger

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    "github.com/axiomhq/axiom-go/axiom"
    "github.com/axiomhq/axiom-go/axiom/ingest"
)

const (
    axiomQueueSize     = 1000
    axiomBatchSize     = 200
    axiomIngestTimeout = 15 * time.Second
)

// axiomForwarder is an io.Writer that queues zerolog lines and ships them
// to an Axiom dataset in batches. Events are dropped when the queue is full.
type axiomForwarder struct {
    client  *axiom.Client
    dataset string
    service string
    queue   chan axiom.Event
    done    chan struct{}
    wg      sync.WaitGroup
}

func newAxiomForwarder(token, orgID, dataset, service string, every time.Duration) (*axiomForwarder, error) {
    if dataset == "" { dataset = "dev_bookletcalc" }
    if every <= 0 { every = 10 * time.Second }
    opts := []axiom.Option{axiom.SetToken(token)}
    if orgID != "" { opts = append(opts, axiom.SetOrganizationID(orgID)) }
    c, err := axiom.NewClient(opts...)
    if err != nil { return nil, err }

    f := &axiomForwarder{
        client:  c,
        dataset: dataset,
        service: service,
        queue:   make(chan axiom.Event, axiomQueueSize),
        done:    make(chan struct{}),
    }
    f.wg.Add(1)
    go f.run(every)
    return f, nil
}

func (f *axiomForwarder) Write(p []byte) (int, error) {
    if ev, ok := axiomEvent(p, f.service); ok {
        select {
        case f.queue <- ev:
        default:
        }
    }
    return len(p), nil
}

// axiomEvent turns one log line into an Axiom event. Debug lines are skipped.
func axiomEvent(p []byte, service string) (axiom.Event, bool) {
    var ev map[string]interface{}
    if err := json.Unmarshal(p, &ev); err != nil {
        ev = map[string]interface{}{"message": string(p), "level": "info"}
    }
    if lvl, _ := ev["level"].(string); lvl == "debug" {
        return nil, false
    }
    if _, ok := ev["service"]; !ok { ev["service"] = service }
    if _, ok := ev[ingest.TimestampField]; !ok { ev[ingest.TimestampField] = time.Now() }
    return axiom.Event(ev), true
}

func (f *axiomForwarder) run(every time.Duration) {
    defer f.wg.Done()
    tick := time.NewTicker(every)
    defer tick.Stop()

    pending := make([]axiom.Event, 0, axiomBatchSize)
    ship := func() {
        if len(pending) == 0 { return }
        ctx, cancel := context.WithTimeout(context.Background(), axiomIngestTimeout)
        _, _ = f.client.IngestEvents(ctx, f.dataset, pending)
        cancel()
        pending = pending[:0]
    }
    for {
        select {
        case ev := <-f.queue:
            pending = append(pending, ev)
            if len(pending) >= axiomBatchSize { ship() }
        case <-tick.C:
            ship()
        case <-f.done:
            for {
                select {
                case ev := <-f.queue:
                    pending = append(pending, ev)
                default:
                    ship()
                    return
                }
            }
        }
    }
}

// Close ships whatever is queued and stops the loop.
func (f *axiomForwarder) Close() {
    close(f.done)
    f.wg.Wait()
}
