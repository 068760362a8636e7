package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCache_PutGet(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	c.Put("key1", Entry{Document: []byte("<h1>Hello</h1>"), Root: "App", Components: 2})

	entry, status := c.Get("key1")
	if status != StatusHit {
		t.Errorf("status = %q, want hit", status)
	}
	if string(entry.Document) != "<h1>Hello</h1>" {
		t.Errorf("Document = %q", string(entry.Document))
	}
	if entry.Root != "App" || entry.Components != 2 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Size != 14 {
		t.Errorf("Size = %d, want 14 (document length)", entry.Size)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	entry, status := c.Get("nonexistent")
	if status != StatusMiss {
		t.Errorf("status = %q, want miss", status)
	}
	if entry != nil {
		t.Error("entry should be nil for miss")
	}
}

func TestCache_EmptyDocumentIsCached(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	c.Put("styles-only", Entry{Empty: true})

	entry, status := c.Get("styles-only")
	if status != StatusHit || !entry.Empty {
		t.Errorf("got %+v, %q; want empty hit", entry, status)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put("key1", Entry{Document: []byte("data")})

	// Advance time past TTL
	c.now = func() time.Time { return now.Add(6 * time.Minute) }

	entry, status := c.Get("key1")
	if status != StatusExpired {
		t.Errorf("status = %q, want expired", status)
	}
	if entry != nil {
		t.Error("expired entries are not returned")
	}
	if c.Len() != 0 || c.Size() != 0 {
		t.Errorf("expired entry kept: Len = %d, Size = %d", c.Len(), c.Size())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	// Max 100 bytes
	c := New(5*time.Minute, 100)

	c.Put("a", Entry{Document: []byte("aaa"), Size: 40})
	c.Put("b", Entry{Document: []byte("bbb"), Size: 40})
	c.Put("c", Entry{Document: []byte("ccc"), Size: 40})

	// "a" should be evicted (LRU), cache has "b" and "c"
	_, status := c.Get("a")
	if status != StatusMiss {
		t.Errorf("'a' should be evicted, got status %q", status)
	}

	_, status = c.Get("b")
	if status != StatusHit {
		t.Errorf("'b' should still be cached, got status %q", status)
	}
}

func TestCache_LRUEviction_AccessOrder(t *testing.T) {
	c := New(5*time.Minute, 100)

	c.Put("a", Entry{Document: []byte("aaa"), Size: 40})
	c.Put("b", Entry{Document: []byte("bbb"), Size: 40})

	// Access "a" to make it recently used
	c.Get("a")

	// Adding "c" should evict "b" (least recently used), not "a"
	c.Put("c", Entry{Document: []byte("ccc"), Size: 40})

	_, status := c.Get("a")
	if status != StatusHit {
		t.Error("'a' was accessed recently and should not be evicted")
	}

	_, status = c.Get("b")
	if status != StatusMiss {
		t.Error("'b' should be evicted as LRU")
	}
}

func TestCache_UpdateExisting(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	c.Put("key1", Entry{Document: []byte("old")})
	c.Put("key1", Entry{Document: []byte("new data")})

	entry, status := c.Get("key1")
	if status != StatusHit {
		t.Errorf("status = %q, want hit", status)
	}
	if string(entry.Document) != "new data" {
		t.Errorf("Document = %q, want new data", string(entry.Document))
	}

	if c.Size() != 8 {
		t.Errorf("Size = %d, want 8 (updated entry size)", c.Size())
	}
}

func TestCache_GetOrBuild(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	calls := 0
	build := func() Entry {
		calls++
		return Entry{Document: []byte("<p>built</p>"), Root: "App"}
	}

	entry, status := c.GetOrBuild("fp", build)
	if status != StatusMiss || string(entry.Document) != "<p>built</p>" {
		t.Errorf("first call = %+v, %q", entry, status)
	}

	entry, status = c.GetOrBuild("fp", build)
	if status != StatusHit || entry.Root != "App" {
		t.Errorf("second call = %+v, %q", entry, status)
	}
	if calls != 1 {
		t.Errorf("build called %d times, want 1", calls)
	}
}

func TestCache_GetOrBuild_Concurrent(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	var calls atomic.Int32
	release := make(chan struct{})
	build := func() Entry {
		calls.Add(1)
		<-release
		return Entry{Document: []byte("doc")}
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, _ := c.GetOrBuild("same", build)
			if string(entry.Document) != "doc" {
				t.Errorf("Document = %q", entry.Document)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n < 1 || n > 10 {
		t.Errorf("build calls = %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", i%10)
			c.Put(key, Entry{Document: []byte("data")})
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len = %d, expected <= 10", c.Len())
	}
}

func TestCache_SizeAccounting(t *testing.T) {
	c := New(5*time.Minute, 1024*1024)

	c.Put("a", Entry{Size: 100})
	c.Put("b", Entry{Size: 200})

	if c.Size() != 300 {
		t.Errorf("Size = %d, want 300", c.Size())
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}
