// Package notify adalah pengganti "toast": service melaporkan hasil aksi ke
// Notifier, layer HTTP mengumpulkannya lalu mengirim ke client.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

type Notifier interface {
	Notify(n Notice)
}

func Success(n Notifier, msg string) { n.Notify(Notice{Level: LevelSuccess, Message: msg}) }
func Error(n Notifier, msg string)   { n.Notify(Notice{Level: LevelError, Message: msg}) }

// Recorder menyimpan notice sampai di-Drain oleh controller.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Drain mengembalikan notice yang terkumpul lalu mengosongkan buffer.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Log meneruskan notice ke logger (dipakai saat tidak ada client yang menunggu).
type Log struct{ Entry logrus.FieldLogger }

func (l Log) Notify(n Notice) {
	e := l.Entry.WithField("notice", n.Level)
	if n.Level == LevelError {
		e.Warn(n.Message)
		return
	}
	e.Info(n.Message)
}
