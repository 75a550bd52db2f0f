package sampler

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/eyedropper-mcp/internal/imaging"
)

// Result is an encoded magnified image handed to a display layer.
type Result struct {
	ID        uuid.UUID `json:"id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	PNG       []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResult encodes img for the handoff slot.
func NewResult(img image.Image) (*Result, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Result{
		ID:        uuid.New(),
		Width:     b.Dx(),
		Height:    b.Dy(),
		PNG:       data,
		CreatedAt: time.Now(),
	}, nil
}

// Slot holds the most recent Result.
//
// The lock covers only the swap of the stored pointer; encoding happens in
// NewResult before Store is called. Results are immutable once stored.
type Slot struct {
	mu   sync.Mutex
	last *Result
	subs map[chan *Result]struct{}
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{subs: make(map[chan *Result]struct{})}
}

// Store replaces the current result and notifies subscribers. Slow
// subscribers only ever see the newest result.
func (s *Slot) Store(r *Result) {
	s.mu.Lock()
	s.last = r
	subs := make([]chan *Result, 0, len(s.subs))
	for ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- r:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- r:
			default:
			}
		}
	}
}

// Load returns the current result, or nil if none has been stored.
func (s *Slot) Load() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Dimensions returns the size of the current result.
func (s *Slot) Dimensions() (width, height int, ok bool) {
	r := s.Load()
	if r == nil {
		return 0, 0, false
	}
	return r.Width, r.Height, true
}

// Subscribe returns a channel receiving each stored result and a function
// that stops delivery. The channel is never closed.
func (s *Slot) Subscribe() (<-chan *Result, func()) {
	ch := make(chan *Result, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}
