// Package boltstore keeps patients in an embedded boltdb file, one key per
// record in the "patients" bucket. Values use the same JSON object as the
// legacy document format.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/rs/zerolog"

	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
)

var bucketName = []byte("patients")

var _ repositories.PatientRepositoryContract = (*Store)(nil)

// Store is a boltdb-backed PatientRepositoryContract.
type Store struct {
	db     *bolt.DB
	logger zerolog.Logger
}

// Open opens or creates the database at path. It fails after one second if
// another process holds the file lock.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	logger.Info().Str("path", path).Msg("bolt store opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Create(ctx context.Context, patient *entities.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		key := []byte(patient.ID)
		if b.Get(key) != nil {
			return fmt.Errorf("create %s: %w", patient.ID, repositories.ErrConflict)
		}
		return put(b, patient)
	})
}

func (s *Store) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entities.Patient
	err := s.db.View(func(tx *bolt.Tx) error {
		p, err := get(tx.Bucket(bucketName), id)
		out = p
		return err
	})
	return out, err
}

func (s *Store) Update(ctx context.Context, id string, mutate repositories.MutateFunc) (*entities.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entities.Patient
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		p, err := get(b, id)
		if err != nil {
			return err
		}
		if err := mutate(p); err != nil {
			return err
		}
		p.ID = id
		out = p
		return put(b, p)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("delete %s: %w", id, repositories.ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
}

func (s *Store) ListAll(ctx context.Context) ([]*entities.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entities.Patient
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			p, err := decode(k, v)
			if err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	return out, err
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

func get(b *bolt.Bucket, id string) (*entities.Patient, error) {
	v := b.Get([]byte(id))
	if v == nil {
		return nil, fmt.Errorf("get %s: %w", id, repositories.ErrNotFound)
	}
	return decode([]byte(id), v)
}

func put(b *bolt.Bucket, p *entities.Patient) error {
	v, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding patient %s: %w", p.ID, err)
	}
	return b.Put([]byte(p.ID), v)
}

func decode(k, v []byte) (*entities.Patient, error) {
	p := &entities.Patient{}
	if err := json.Unmarshal(v, p); err != nil {
		return nil, fmt.Errorf("decoding patient %s: %w", k, err)
	}
	p.ID = string(k)
	return p, nil
}
