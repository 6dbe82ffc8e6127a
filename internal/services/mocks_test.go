package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
)

// --- MockPatientRepository ---
// Compile-time check to ensure MockPatientRepository implements PatientRepositoryContract
var _ repositories.PatientRepositoryContract = (*MockPatientRepository)(nil)

// MockPatientRepository is a mock implementation of PatientRepositoryContract.
type MockPatientRepository struct {
	CreateFunc  func(ctx context.Context, patient *entities.Patient) error
	GetByIDFunc func(ctx context.Context, id string) (*entities.Patient, error)
	UpdateFunc  func(ctx context.Context, id string, mutate repositories.MutateFunc) (*entities.Patient, error)
	DeleteFunc  func(ctx context.Context, id string) error
	ListAllFunc func(ctx context.Context) ([]*entities.Patient, error)

	ListAllFuncCallCount int32
	CreateFuncCallCount  int32
	UpdateFuncCallCount  int32
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *entities.Patient) error {
	atomic.AddInt32(&m.CreateFuncCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockPatientRepository) Update(ctx context.Context, id string, mutate repositories.MutateFunc) (*entities.Patient, error) {
	atomic.AddInt32(&m.UpdateFuncCallCount, 1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, mutate)
	}
	return nil, errors.New("UpdateFunc not implemented in mock")
}

func (m *MockPatientRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc not implemented in mock")
}

func (m *MockPatientRepository) ListAll(ctx context.Context) ([]*entities.Patient, error) {
	atomic.AddInt32(&m.ListAllFuncCallCount, 1)
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockPatientRepository) Close() error { return nil }

// memoryRepository is a map-backed repository for tests that need real
// store semantics.
type memoryRepository struct {
	mu       sync.Mutex
	patients map[string]*entities.Patient
}

func newMemoryRepository(patients ...*entities.Patient) *memoryRepository {
	r := &memoryRepository{patients: map[string]*entities.Patient{}}
	for _, p := range patients {
		r.patients[p.ID] = p.Clone()
	}
	return r
}

// asMock exposes the memory repository through MockPatientRepository.
func (r *memoryRepository) asMock() *MockPatientRepository {
	return &MockPatientRepository{
		CreateFunc: func(_ context.Context, p *entities.Patient) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			if _, ok := r.patients[p.ID]; ok {
				return repositories.ErrConflict
			}
			r.patients[p.ID] = p.Clone()
			return nil
		},
		GetByIDFunc: func(_ context.Context, id string) (*entities.Patient, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			p, ok := r.patients[id]
			if !ok {
				return nil, repositories.ErrNotFound
			}
			return p.Clone(), nil
		},
		UpdateFunc: func(_ context.Context, id string, mutate repositories.MutateFunc) (*entities.Patient, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			p, ok := r.patients[id]
			if !ok {
				return nil, repositories.ErrNotFound
			}
			next := p.Clone()
			if err := mutate(next); err != nil {
				return nil, err
			}
			next.ID = id
			r.patients[id] = next
			return next.Clone(), nil
		},
		DeleteFunc: func(_ context.Context, id string) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			if _, ok := r.patients[id]; !ok {
				return repositories.ErrNotFound
			}
			delete(r.patients, id)
			return nil
		},
		ListAllFunc: func(context.Context) ([]*entities.Patient, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			out := make([]*entities.Patient, 0, len(r.patients))
			for _, p := range r.patients {
				out = append(out, p.Clone())
			}
			return out, nil
		},
	}
}

// --- MockQueueAdapter ---
var _ adapters.QueueAdapter = (*MockQueueAdapter)(nil)

// MockQueueAdapter records published messages.
type MockQueueAdapter struct {
	mu        sync.Mutex
	Published map[string][][]byte

	PublishFunc        func(ctx context.Context, queueName string, jobData []byte) error
	StartConsumingFunc func(ctx context.Context, queueName string, handler adapters.JobHandler) error
}

func (m *MockQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, queueName, jobData); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Published == nil {
		m.Published = map[string][][]byte{}
	}
	m.Published[queueName] = append(m.Published[queueName], jobData)
	return nil
}

func (m *MockQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler adapters.JobHandler) error {
	if m.StartConsumingFunc != nil {
		return m.StartConsumingFunc(ctx, queueName, handler)
	}
	return nil
}

func (m *MockQueueAdapter) StopConsuming(ctx context.Context, queueName string) error { return nil }

func (m *MockQueueAdapter) GlobalStop(ctx context.Context) error { return nil }

func (m *MockQueueAdapter) messages(queueName string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.Published[queueName]...)
}
