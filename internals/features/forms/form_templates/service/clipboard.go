package service

import (
	"context"
	"sync"
)

// Clipboard menerima teks yang "disalin" untuk operator.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// ClipboardBuffer menyimpan teks terakhir; controller mengirimnya sebagai
// copied_url supaya browser admin yang menaruhnya ke clipboard.
type ClipboardBuffer struct {
	mu   sync.Mutex
	last string
}

func (b *ClipboardBuffer) Copy(_ context.Context, text string) error {
	b.mu.Lock()
	b.last = text
	b.mu.Unlock()
	return nil
}

// Take mengembalikan teks terakhir lalu mengosongkannya.
func (b *ClipboardBuffer) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.last
	b.last = ""
	return s
}
