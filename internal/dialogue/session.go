package dialogue

import (
	"github.com/l1jgo/worldcore/internal/entity"
)

// Widgets is the part of the world a dialogue needs.
type Widgets interface {
	OpenWidget(p *entity.Player, widgetID int, lines []string)
	CloseWidgets(p *entity.Player)
}

// Session runs dialogue screens for one player.
type Session struct {
	out    Widgets
	player *entity.Player
}

func New(out Widgets, p *entity.Player) *Session {
	return &Session{out: out, player: p}
}

// Show validates o, opens its widget and suspends the player's pipeline
// until a choice arrives. Validation errors are returned without touching
// the player. A screen with nothing to show calls next(-1, nil) at once.
func (s *Session) Show(o Options, next Continuation) error {
	screen, ok, err := Build(o, s.player.Username)
	if err != nil {
		return err
	}
	if !ok {
		if next != nil {
			next(-1, nil)
		}
		return nil
	}

	s.out.OpenWidget(s.player, screen.WidgetID, screen.Strings)
	s.player.Pipeline().AwaitInput(
		func(v any) {
			if next == nil {
				return
			}
			choice, _ := v.(int)
			next(choice, nil)
		},
		func() {
			if next != nil {
				next(-1, ErrWidgetClosed)
			}
		},
	)
	return nil
}

func (s *Session) Player(emote Emote, lines []string, next Continuation) error {
	return s.Show(Options{Type: TypePlayer, Emote: emote, Lines: lines}, next)
}

func (s *Session) Npc(n *entity.Npc, emote Emote, lines []string, next Continuation) error {
	return s.Show(Options{Type: TypeNpc, Npc: n, Emote: emote, Lines: lines}, next)
}

func (s *Session) Options(title string, options []string, next Continuation) error {
	return s.Show(Options{Type: TypeOptions, Title: title, Lines: options}, next)
}

func (s *Session) Text(lines []string, next Continuation) error {
	return s.Show(Options{Type: TypeText, Lines: lines}, next)
}

// Close ends the conversation and closes the chat widget.
func (s *Session) Close() {
	s.out.CloseWidgets(s.player)
}
