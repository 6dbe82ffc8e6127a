// Package jsonfile persists patients as one JSON document keyed by identifier:
//
//	{ "P001": {"name": "...", "city": "...", ...}, ... }
package jsonfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"patient-management-service/internal/domain/entities"
)

// Document is the on-disk shape of the store.
type Document map[string]*entities.Patient

// ReadDocument decodes a document and stamps each record with its key.
func ReadDocument(r io.Reader) (Document, error) {
	doc := Document{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Document{}, nil
		}
		return nil, fmt.Errorf("decoding patient document: %w", err)
	}
	for id, p := range doc {
		if p == nil {
			delete(doc, id)
			continue
		}
		p.ID = id
	}
	return doc, nil
}

// ReadDocumentFile reads a document from path. A missing file yields an empty document.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// NewDocument indexes patients by ID.
func NewDocument(patients []*entities.Patient) Document {
	doc := make(Document, len(patients))
	for _, p := range patients {
		doc[p.ID] = p
	}
	return doc
}

// WriteDocumentFile replaces path with doc. The new content is written to a
// temporary file in the same directory, synced and renamed over path.
func WriteDocumentFile(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding patient document: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
