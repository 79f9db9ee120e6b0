// internal/game/room_store.go
package game

import (
	"math/rand"
	"sync"
	"time"
)

// Room codes skip 0/O/1/I to stay unambiguous when read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 5

// RoomStore is the process-wide registry of live rooms, keyed by join code.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create allocates a room under a fresh code and registers it. The room's
// OnEmpty hook is wired to drop it from the registry.
func (st *RoomStore) Create() *Room {
	st.mu.Lock()
	defer st.mu.Unlock()

	code := st.newCodeLocked()
	r := NewRoom(code)
	r.OnEmpty = st.remove
	st.rooms[code] = r
	return r
}

func (st *RoomStore) newCodeLocked() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[st.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := st.rooms[code]; !taken {
			return code
		}
	}
}

func (st *RoomStore) Get(code string) (*Room, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.rooms[code]
	return r, ok
}

func (st *RoomStore) remove(code string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.rooms, code)
}

// Count reports how many rooms are live, for the health endpoint.
func (st *RoomStore) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.rooms)
}
