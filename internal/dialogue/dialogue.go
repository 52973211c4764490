// Package dialogue drives chat-box conversations on top of a player's action
// pipeline: a dialogue opens a chat widget and suspends until the player
// picks an option or the widget is closed.
package dialogue

import (
	"errors"
	"fmt"

	"github.com/l1jgo/worldcore/internal/entity"
)

var (
	ErrInvalidLines  = errors.New("invalid line count")
	ErrNpcRequired   = errors.New("npc not supplied")
	ErrSkillRequired = errors.New("level-up widget not supplied")
	// ErrWidgetClosed is passed to the continuation when the player walks
	// away or the widget is otherwise closed before a choice is made.
	ErrWidgetClosed = errors.New("widget closed")
)

type Type int

const (
	TypePlayer Type = iota
	TypeNpc
	TypeOptions
	TypeLevelUp
	TypeText
)

var typeNames = [...]string{"PLAYER", "NPC", "OPTIONS", "LEVEL_UP", "TEXT"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Line limits per dialogue type, inclusive.
var lineLimits = map[Type][2]int{
	TypePlayer:  {1, 4},
	TypeNpc:     {1, 4},
	TypeOptions: {2, 5},
	TypeLevelUp: {2, 2},
	TypeText:    {1, 5},
}

// Chat widget ids indexed by line count - 1 (options: count - 2).
var widgetIDs = map[Type][]int{
	TypePlayer:  {64, 65, 66, 67},
	TypeNpc:     {241, 242, 243, 244},
	TypeOptions: {228, 230, 232, 234},
	TypeText:    {210, 211, 212, 213, 214},
}

// Emote is the head animation played next to player and npc lines.
type Emote int

const (
	EmoteJoyful        Emote = 588
	EmoteCalmTalk      Emote = 589
	EmoteDefault       Emote = 591
	EmoteAnnoyed       Emote = 595
	EmoteDistressed    Emote = 596
	EmoteBowsHeadSad   Emote = 598
	EmoteNotInterested Emote = 602
	EmoteLaugh         Emote = 605
	EmoteSad           Emote = 610
	EmoteConsidering   Emote = 612
	EmoteAngry         Emote = 614
)

// Options describes one dialogue screen.
type Options struct {
	Type  Type
	Npc   *entity.Npc // required for TypeNpc
	Emote Emote
	Title string // TypeOptions only
	// LevelUpWidget is the skill's advancement widget for TypeLevelUp.
	// A negative value skips the screen.
	LevelUpWidget int
	Lines         []string
}

// Continuation receives the player's choice, or ErrWidgetClosed.
// Choice numbering follows the client's button actions.
type Continuation func(choice int, err error)

// Screen is what a dialogue renders: the widget to open and the strings to
// fill it with, head name and title first.
type Screen struct {
	WidgetID int
	Emote    Emote
	Strings  []string
}

// Build validates o and resolves the widget it should open. ok is false when
// there is nothing to show.
func Build(o Options, username string) (Screen, bool, error) {
	limits, known := lineLimits[o.Type]
	if !known {
		return Screen{}, false, fmt.Errorf("dialogue type %s: %w", o.Type, ErrInvalidLines)
	}
	if n := len(o.Lines); n < limits[0] || n > limits[1] {
		return Screen{}, false, fmt.Errorf("%s dialogue with %d lines: %w", o.Type, n, ErrInvalidLines)
	}
	if o.Type == TypeNpc && o.Npc == nil {
		return Screen{}, false, ErrNpcRequired
	}
	if o.Type == TypeLevelUp && o.LevelUpWidget == 0 {
		return Screen{}, false, ErrSkillRequired
	}

	s := Screen{}
	switch o.Type {
	case TypeLevelUp:
		if o.LevelUpWidget < 0 {
			return Screen{}, false, nil
		}
		s.WidgetID = o.LevelUpWidget
	default:
		idx := len(o.Lines) - 1
		if o.Type == TypeOptions {
			idx--
		}
		s.WidgetID = widgetIDs[o.Type][idx]
	}

	switch o.Type {
	case TypePlayer, TypeNpc:
		s.Emote = o.Emote
		if s.Emote == 0 {
			s.Emote = EmoteDefault
		}
		name := username
		if o.Type == TypeNpc {
			name = o.Npc.Name
		}
		s.Strings = append([]string{name}, o.Lines...)
	case TypeOptions:
		s.Strings = append([]string{o.Title}, o.Lines...)
	default:
		s.Strings = append([]string(nil), o.Lines...)
	}
	return s, true, nil
}
