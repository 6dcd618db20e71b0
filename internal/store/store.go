// Package store owns the finance document: it loads the persisted blob
// through the schema reconciler, serves the latest and previous snapshots,
// and persists every change through a Backend.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/schema"
)

// DocumentKey is the backend key of the finance document.
const DocumentKey = "finance-data"

// Source says where a loaded document came from.
type Source string

const (
	SourceStored    Source = "stored"
	SourceDefaults  Source = "defaults"
	SourceRecovered Source = "recovered"
)

// LoadReport describes the outcome of Load.
type LoadReport struct {
	Source     Source
	Migrations []string
	// Discarded holds the failure that caused a stored document to be replaced by defaults.
	Discarded error
}

// Store holds one finance document. It is not safe for concurrent use and
// holds no lock against other processes writing the same backend.
type Store struct {
	backend Backend
	log     logrus.FieldLogger
	today   func() model.Date
	doc     *model.Document
}

// New returns a store over backend. A nil logger discards log output.
func New(backend Backend, log logrus.FieldLogger) *Store {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Store{backend: backend, log: log, today: model.Today}
}

// Load reads and reconciles the stored document. A missing, unreadable or
// unparseable document is replaced by the bundled defaults; the only error is
// a broken bundle.
func (s *Store) Load() (LoadReport, error) {
	log := s.log.WithField("key", DocumentKey)

	body, err := s.backend.Read(DocumentKey)
	if err == nil {
		doc, res, rerr := schema.Reconcile(body)
		if rerr == nil {
			s.doc = doc
			if len(res.Applied) > 0 {
				log.WithFields(logrus.Fields{
					"from":       res.FromVersion,
					"to":         res.ToVersion,
					"migrations": res.Applied,
				}).Info("migrated stored document")
			}
			log.WithField("snapshots", len(doc.Snapshots)).Debug("loaded stored document")
			return LoadReport{Source: SourceStored, Migrations: res.Applied}, nil
		}
		err = rerr
	}

	doc, derr := schema.Defaults()
	if derr != nil {
		return LoadReport{}, derr
	}
	s.doc = doc

	if errors.Is(err, ErrNotFound) {
		log.Debug("no stored document, using defaults")
		return LoadReport{Source: SourceDefaults}, nil
	}
	log.WithError(err).Warn("discarding unreadable stored document, using defaults")
	return LoadReport{Source: SourceRecovered, Discarded: err}, nil
}

func (s *Store) ensure() error {
	if s.doc != nil {
		return nil
	}
	_, err := s.Load()
	return err
}

// Document returns the loaded document, loading it on first use. Callers must
// treat it as read-only and change it through Mutate.
func (s *Store) Document() *model.Document {
	if err := s.ensure(); err != nil {
		s.log.WithError(err).Error("loading document")
		return &model.Document{Goals: map[string]model.Goal{}}
	}
	return s.doc
}

// Latest returns the snapshot with the greatest date.
func (s *Store) Latest() (model.Snapshot, bool) {
	snaps := s.Document().Snapshots
	if len(snaps) == 0 {
		return model.Snapshot{}, false
	}
	return snaps[len(snaps)-1], true
}

// Previous returns the snapshot before Latest, or false when fewer than two exist.
func (s *Store) Previous() (model.Snapshot, bool) {
	snaps := s.Document().Snapshots
	if len(snaps) < 2 {
		return model.Snapshot{}, false
	}
	return snaps[len(snaps)-2], true
}

// Append validates snap, inserts it in date order and persists.
func (s *Store) Append(snap model.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.Normalize()
	return s.Mutate(func(doc *model.Document) error {
		doc.Snapshots = append(doc.Snapshots, snap)
		return nil
	})
}

// UpdateIncome sets net income, and gross when positive, then persists.
// A non-positive or non-finite net is ignored: it returns false and persists nothing.
func (s *Store) UpdateIncome(net, gross float64) (bool, error) {
	if net <= 0 || math.IsNaN(net) || math.IsInf(net, 0) {
		return false, nil
	}
	err := s.Mutate(func(doc *model.Document) error {
		doc.Income.Net = net
		if gross > 0 && !math.IsInf(gross, 0) {
			doc.Income.Gross = gross
		}
		doc.Income.LastUpdated = s.today().String()
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetTaskCompleted marks the task with id done or not done and persists.
// It reports false, persisting nothing, when no task has id.
func (s *Store) SetTaskCompleted(id model.TaskID, done bool) (bool, error) {
	found := false
	err := s.Mutate(func(doc *model.Document) error {
		for i := range doc.WeddingTasks {
			if doc.WeddingTasks[i].ID == id {
				doc.WeddingTasks[i].Completed = done
				found = true
			}
		}
		if !found {
			return errTaskNotFound
		}
		return nil
	})
	if errors.Is(err, errTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var errTaskNotFound = errors.New("task not found")

// Mutate applies fn to a copy of the document and persists the result.
// The loaded document is unchanged when fn or the write fails.
func (s *Store) Mutate(fn func(doc *model.Document) error) error {
	if err := s.ensure(); err != nil {
		return err
	}
	next, err := cloneDocument(s.doc)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	next.Normalize()
	return s.commit(next)
}

// Persist writes the loaded document.
func (s *Store) Persist() error {
	if err := s.ensure(); err != nil {
		return err
	}
	return s.commit(s.doc)
}

// Import validates, reconciles and persists data as the new document.
// On any failure both the loaded and the persisted document are unchanged.
func (s *Store) Import(data []byte) (schema.Result, error) {
	if err := schema.ValidateImport(data); err != nil {
		return schema.Result{}, err
	}
	doc, res, err := schema.Reconcile(data)
	if err != nil {
		return res, fmt.Errorf("%w: %v", schema.ErrInvalidImport, err)
	}
	if err := s.commit(doc); err != nil {
		return res, err
	}
	s.log.WithFields(logrus.Fields{
		"snapshots":  len(doc.Snapshots),
		"migrations": res.Applied,
	}).Info("imported document")
	return res, nil
}

// Export returns the document as indented JSON.
func (s *Store) Export() ([]byte, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return append(out, '\n'), nil
}

func (s *Store) commit(doc *model.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := s.backend.Write(DocumentKey, body); err != nil {
		return fmt.Errorf("persisting document: %w", err)
	}
	s.doc = doc
	return nil
}

func cloneDocument(doc *model.Document) (*model.Document, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	var out model.Document
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	return &out, nil
}
