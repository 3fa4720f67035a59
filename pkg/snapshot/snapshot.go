// Package snapshot captures rendered trees and stores them in a sink.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/host/memdom"
)

// Snapshot is a point-in-time capture of a tree.
type Snapshot struct {
	Name      string               `json:"name"`
	TakenAt   time.Time            `json:"takenAt"`
	HTML      string               `json:"html"`
	Tree      *memdom.NodeSnapshot `json:"tree,omitempty"`
	Mutations []memdom.Mutation    `json:"mutations,omitempty"`
}

// Take captures root and the document's mutation log.
func Take(name string, doc *memdom.Document, root host.Node) *Snapshot {
	s := &Snapshot{
		Name:    name,
		TakenAt: time.Now().UTC(),
		HTML:    memdom.OuterHTML(root),
		Tree:    memdom.Snapshot(root),
	}
	if doc != nil {
		s.Mutations = doc.Mutations()
	}
	return s
}

// Sink stores encoded snapshots by key.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Key returns the storage key of a snapshot name.
func Key(name string) string {
	return name + ".json"
}

// Save encodes snap as JSON and stores it under Key(snap.Name). Failures
// are E040 errors.
func Save(ctx context.Context, sink Sink, snap *Snapshot) error {
	if err := validName(snap.Name); err != nil {
		return errs.New("E040").Wrap(err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errs.New("E040").WithDetail(snap.Name).Wrap(err)
	}
	if err := sink.Put(ctx, Key(snap.Name), data); err != nil {
		return errs.New("E040").WithDetail(snap.Name).Wrap(err)
	}
	return nil
}

func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("snapshot name is empty")
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("snapshot name %q must not contain path separators", name)
	}
	return nil
}
