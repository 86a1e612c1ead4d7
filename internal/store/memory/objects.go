package memory

import (
	"context"
	"sync"
)

// ObjectStore 内存存储桶，可以设置前 N 次上传失败
type ObjectStore struct {
	mu       sync.Mutex
	BaseURL  string
	objects  map[string][]byte
	failLeft int
	failErr  error
	attempts int
}

func NewObjectStore(baseURL string) *ObjectStore {
	return &ObjectStore{BaseURL: baseURL, objects: make(map[string][]byte)}
}

// FailTimes 接下来 n 次上传返回 err，n < 0 表示一直失败
func (s *ObjectStore) FailTimes(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLeft = n
	s.failErr = err
}

func (s *ObjectStore) UploadObject(ctx context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failLeft != 0 {
		if s.failLeft > 0 {
			s.failLeft--
		}
		return s.failErr
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

// Attempts 上传调用次数，包括失败的
func (s *ObjectStore) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *ObjectStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *ObjectStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
