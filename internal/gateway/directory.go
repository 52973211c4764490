package gateway

import (
	"slices"

	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/net"
)

// Directory maps live sessions to their players. Tick loop only.
type Directory struct {
	sessions map[uint64]*net.Session
	players  map[uint64]*entity.Player
	byPlayer map[*entity.Player]*net.Session
}

func NewDirectory() *Directory {
	return &Directory{
		sessions: make(map[uint64]*net.Session),
		players:  make(map[uint64]*entity.Player),
		byPlayer: make(map[*entity.Player]*net.Session),
	}
}

// Sessions returns live sessions ordered by id.
func (d *Directory) Sessions() []*net.Session {
	out := make([]*net.Session, 0, len(d.sessions))
	for _, s := range d.sessions {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *net.Session) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

func (d *Directory) Len() int { return len(d.sessions) }

func (d *Directory) Player(s *net.Session) (*entity.Player, bool) {
	p, ok := d.players[s.ID]
	return p, ok
}

// Session returns the connection p is logged in on. Fake players have none.
func (d *Directory) Session(p *entity.Player) (*net.Session, bool) {
	s, ok := d.byPlayer[p]
	return s, ok
}

func (d *Directory) addSession(s *net.Session) {
	d.sessions[s.ID] = s
}

func (d *Directory) bind(s *net.Session, p *entity.Player) {
	d.players[s.ID] = p
	d.byPlayer[p] = s
}

func (d *Directory) removeSession(s *net.Session) {
	if p, ok := d.players[s.ID]; ok {
		delete(d.byPlayer, p)
	}
	delete(d.players, s.ID)
	delete(d.sessions, s.ID)
}
