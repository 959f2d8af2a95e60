package storage

import "context"

// MockKV - мок для тестирования (экспортируемый для использования в других пакетах)
type MockKV struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	PutFunc func(ctx context.Context, key string, value []byte) error
}

func (m *MockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, ErrKeyNotFound
}

func (m *MockKV) Put(ctx context.Context, key string, value []byte) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, value)
	}
	return nil
}

func (m *MockKV) Close() error {
	return nil
}
