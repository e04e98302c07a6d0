// Package service implements the unit update flow: resolve the unit named in
// free text, extract fields from a document, merge them into the registry and
// write the resulting snapshot file.
package service

import (
	"context"
	"errors"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/extract"
	"github.com/fairyhunter13/unit-update-service/internal/model"
	"github.com/fairyhunter13/unit-update-service/internal/obs"
	"github.com/fairyhunter13/unit-update-service/internal/resolver"
	"github.com/fairyhunter13/unit-update-service/internal/snapshot"
	"github.com/fairyhunter13/unit-update-service/internal/store"
)

// ErrUnitUnresolved is returned when the request text names no known unit.
var ErrUnitUnresolved = apperr.Errorf(apperr.KindInvalidInput, "service.resolve", "no known unit in text")

// Document is the source an update extracts from. Data set means the
// document was uploaded; otherwise Path is read from disk.
type Document struct {
	Path string
	Name string
	Data []byte
}

// Uploaded reports whether the document came with the request.
func (d Document) Uploaded() bool { return d.Data != nil }

// Request is one update call.
type Request struct {
	Text     string
	Document Document
}

// Result is the outcome of a successful update.
type Result struct {
	Unit     string
	Record   model.Record
	Revision uint64
	Fields   []string
	Snapshot snapshot.Snapshot
}

// Service wires the registry, resolver and snapshot writer together.
type Service struct {
	store        *store.Store
	resolver     *resolver.Resolver
	writer       *snapshot.Writer
	documentPath string
}

// New returns a Service. documentPath is used when a request does not carry
// its own document.
func New(st *store.Store, res *resolver.Resolver, w *snapshot.Writer, documentPath string) *Service {
	return &Service{store: st, resolver: res, writer: w, documentPath: documentPath}
}

// Store exposes the registry for read paths.
func (s *Service) Store() *store.Store { return s.store }

// DocumentPath returns the configured fallback document.
func (s *Service) DocumentPath() string { return s.documentPath }

// Resolve maps text to a known unit.
func (s *Service) Resolve(text string) (string, error) {
	unit, ok := s.resolver.Resolve(text)
	if !ok {
		return "", ErrUnitUnresolved
	}
	return unit, nil
}

// Extract reads the patch out of doc, falling back to the configured path.
func (s *Service) Extract(doc Document) (model.Patch, error) {
	if doc.Uploaded() {
		return extract.Bytes(doc.Data)
	}
	path := doc.Path
	if path == "" {
		path = s.documentPath
	}
	if path == "" {
		return model.Patch{}, apperr.Errorf(apperr.KindIO, "service.extract", "no document configured")
	}
	return extract.File(path)
}

// Update runs the whole flow. Merge and snapshot write happen under the
// registry lock; if the write fails the record is not changed.
func (s *Service) Update(ctx context.Context, req Request) (Result, error) {
	log := obs.FromContext(ctx)
	unit, err := s.Resolve(req.Text)
	if err != nil {
		return Result{}, err
	}
	patch, err := s.Extract(req.Document)
	if err != nil {
		log.Warn("document_extract_failed", "unit", unit, "uploaded", req.Document.Uploaded(), "error", err)
		return Result{}, err
	}
	if patch.Empty() {
		log.Warn("document_without_fields", "unit", unit, "uploaded", req.Document.Uploaded())
	}
	if err := ctx.Err(); err != nil {
		return Result{}, apperr.E(apperr.KindInternal, "service.update", err)
	}
	var snap snapshot.Snapshot
	rec, rev, err := s.store.Update(unit, func(r model.Record) (model.Record, error) {
		merged := patch.ApplyTo(r)
		var werr error
		snap, werr = s.writer.Write(unit, merged)
		return merged, werr
	})
	if err != nil {
		return Result{}, err
	}
	res := Result{Unit: unit, Record: rec, Revision: rev, Fields: patch.Fields(), Snapshot: snap}
	log.Info("unit_updated",
		"unit", unit,
		"revision", rev,
		"fields", res.Fields,
		"snapshot", snap.Path,
		"uploaded", req.Document.Uploaded(),
	)
	return res, nil
}

// IsUnresolved reports whether err means no unit could be identified.
func IsUnresolved(err error) bool { return errors.Is(err, ErrUnitUnresolved) }
