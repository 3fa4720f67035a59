package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/pkg/component"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/host/memdom"
	"github.com/vango-dev/livetree/pkg/metrics"
	"github.com/vango-dev/livetree/pkg/reconcile"
	"github.com/vango-dev/livetree/pkg/scheduler"
	"github.com/vango-dev/livetree/pkg/snapshot"
	"github.com/vango-dev/livetree/pkg/treedoc"
	"github.com/vango-dev/livetree/pkg/vdom"
)

// player replays the steps of a tree document through a component
// instance mounted on an in-memory root.
type player struct {
	name     string
	steps    []*vdom.VNode
	doc      *memdom.Document
	root     host.Element
	queue    *scheduler.Queue
	inst     *component.Instance
	registry *prometheus.Registry
	metrics  *metrics.Collector
	sinks    []snapshot.Sink
	logger   *slog.Logger
}

func newPlayer(cfg *config.Config, td *treedoc.Document, logger *slog.Logger) *player {
	p := &player{
		name:   td.Name,
		steps:  td.Build(),
		doc:    memdom.New(),
		logger: logger,
	}
	if p.name == "" {
		p.name = "tree"
	}
	p.root = p.doc.CreateElement("livetree-root", "")
	p.queue = scheduler.NewQueue(scheduler.WithLogger(logger))

	engineOpts := []reconcile.Option{reconcile.WithDocument(p.doc), reconcile.WithLogger(logger)}
	instOpts := []component.Option{component.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		p.registry = prometheus.NewRegistry()
		p.metrics = metrics.New(
			metrics.WithRegistry(p.registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)
		engineOpts = append(engineOpts, reconcile.WithObserver(p.metrics))
		instOpts = append(instOpts, component.WithRecorder(p.metrics))
	}
	instOpts = append(instOpts, component.WithEngine(reconcile.NewEngine(engineOpts...)))

	def := component.Definition{
		Name: p.name,
		Render: func(v component.View) *vdom.VNode {
			i, _ := v.State["step"].(int)
			if i < 0 || i >= len(p.steps) {
				return nil
			}
			return p.steps[i]
		},
	}
	p.inst = component.New(def, p.root, p.queue, instOpts...)
	return p
}

// addSinks configures snapshot sinks from cfg.
func (p *player) addSinks(cfg *config.Config) {
	if cfg.Snapshot.Dir != "" {
		p.sinks = append(p.sinks, snapshot.NewFileSink(cfg.Snapshot.Dir))
	}
	if s3cfg := cfg.Snapshot.S3; s3cfg.Bucket != "" {
		client := snapshot.NewS3Client(snapshot.ClientOptions{Region: s3cfg.Region, Endpoint: s3cfg.Endpoint})
		p.sinks = append(p.sinks, snapshot.NewS3Sink(client, s3cfg.Bucket, s3cfg.Prefix))
	}
}

// request asks for step i to be rendered. The first request mounts the
// instance.
func (p *player) request(i int) {
	p.inst.SetState(component.Props{"step": i})
	p.inst.Mount()
}

// apply renders step i and waits for the pass to commit.
func (p *player) apply(i int) error {
	p.request(i)
	p.queue.Drain()
	return p.inst.Err()
}

// save stores a snapshot of the current tree in every sink.
func (p *player) save(ctx context.Context, stepName string) error {
	if len(p.sinks) == 0 {
		return nil
	}
	snap := snapshot.Take(stepName, p.doc, p.root)
	var errList []error
	for _, sink := range p.sinks {
		if err := snapshot.Save(ctx, sink, snap); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
