package dialogue

import (
	"errors"
	"testing"

	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/pixil98/go-testutil"
)

type opened struct {
	widget int
	lines  []string
}

type fakeWidgets struct {
	opened []opened
	closed int
}

func (f *fakeWidgets) OpenWidget(p *entity.Player, id int, lines []string) {
	p.ActiveWidget = id
	f.opened = append(f.opened, opened{widget: id, lines: lines})
}

func (f *fakeWidgets) CloseWidgets(p *entity.Player) {
	f.closed++
	p.ActiveWidget = entity.NoWidget
	p.Pipeline().CloseInteraction()
}

func TestBuildWidgetIDs(t *testing.T) {
	man := entity.NewNpc(1, "Man", coord.New(0, 0, 0), 0, coord.DirSouth)
	tests := map[string]struct {
		opts Options
		exp  int
	}{
		"player one line":   {opts: Options{Type: TypePlayer, Lines: []string{"a"}}, exp: 64},
		"player four":       {opts: Options{Type: TypePlayer, Lines: []string{"a", "b", "c", "d"}}, exp: 67},
		"npc two":           {opts: Options{Type: TypeNpc, Npc: man, Lines: []string{"a", "b"}}, exp: 242},
		"options two":       {opts: Options{Type: TypeOptions, Lines: []string{"a", "b"}}, exp: 228},
		"options five":      {opts: Options{Type: TypeOptions, Lines: []string{"a", "b", "c", "d", "e"}}, exp: 234},
		"text five":         {opts: Options{Type: TypeText, Lines: []string{"a", "b", "c", "d", "e"}}, exp: 214},
		"level up explicit": {opts: Options{Type: TypeLevelUp, LevelUpWidget: 158, Lines: []string{"a", "b"}}, exp: 158},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, ok, err := Build(tt.opts, "alice")
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			testutil.AssertEqual(t, "ok", ok, true)
			testutil.AssertEqual(t, "widget", s.WidgetID, tt.exp)
		})
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	tests := map[string]struct {
		opts Options
		exp  error
	}{
		"npc too many":   {opts: Options{Type: TypeNpc, Lines: []string{"a", "b", "c", "d", "e"}}, exp: ErrInvalidLines},
		"options one":    {opts: Options{Type: TypeOptions, Lines: []string{"a"}}, exp: ErrInvalidLines},
		"text none":      {opts: Options{Type: TypeText}, exp: ErrInvalidLines},
		"level up three": {opts: Options{Type: TypeLevelUp, LevelUpWidget: 1, Lines: []string{"a", "b", "c"}}, exp: ErrInvalidLines},
		"npc missing":    {opts: Options{Type: TypeNpc, Lines: []string{"a"}}, exp: ErrNpcRequired},
		"level up no id": {opts: Options{Type: TypeLevelUp, Lines: []string{"a", "b"}}, exp: ErrSkillRequired},
		"unknown type":   {opts: Options{Type: Type(42), Lines: []string{"a"}}, exp: ErrInvalidLines},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Build(tt.opts, "alice")
			testutil.AssertEqual(t, "sentinel", errors.Is(err, tt.exp), true)
		})
	}
}

func TestBuildStrings(t *testing.T) {
	s, _, _ := Build(Options{Type: TypePlayer, Lines: []string{"Hi."}}, "alice")
	testutil.AssertEqual(t, "head name", s.Strings[0], "alice")
	testutil.AssertEqual(t, "default emote", s.Emote, EmoteDefault)

	s, _, _ = Build(Options{Type: TypeOptions, Title: "Select an Option", Lines: []string{"Yes", "No"}}, "alice")
	testutil.AssertEqual(t, "title first", s.Strings[0], "Select an Option")
	testutil.AssertEqual(t, "count", len(s.Strings), 3)
}

func TestSessionChoice(t *testing.T) {
	out := &fakeWidgets{}
	p := entity.NewPlayer("alice", coord.New(3222, 3222, 0))
	sess := New(out, p)

	got, gotErr := -2, error(nil)
	err := sess.Options("Select an Option", []string{"Yes", "No"}, func(c int, err error) {
		got, gotErr = c, err
	})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	testutil.AssertEqual(t, "opened", len(out.opened), 1)
	testutil.AssertEqual(t, "widget", p.ActiveWidget, 228)
	testutil.AssertEqual(t, "busy", p.Pipeline().Busy(), true)

	testutil.AssertEqual(t, "delivered", p.Pipeline().ProvideInput(2), true)
	testutil.AssertEqual(t, "choice", got, 2)
	testutil.AssertEqual(t, "no error", gotErr == nil, true)

	sess.Close()
	testutil.AssertEqual(t, "closed", out.closed, 1)
	testutil.AssertEqual(t, "still choice", got, 2)
}

func TestSessionWidgetClosed(t *testing.T) {
	out := &fakeWidgets{}
	man := entity.NewNpc(1, "Man", coord.New(3222, 3223, 0), 0, coord.DirSouth)
	p := entity.NewPlayer("alice", coord.New(3222, 3222, 0))
	sess := New(out, p)

	calls := 0
	var gotErr error
	_ = sess.Npc(man, EmoteJoyful, []string{"Hello there."}, func(_ int, err error) {
		calls++
		gotErr = err
	})
	testutil.AssertEqual(t, "npc name", out.opened[0].lines[0], "Man")

	out.CloseWidgets(p)
	out.CloseWidgets(p)
	testutil.AssertEqual(t, "called once", calls, 1)
	testutil.AssertEqual(t, "closed error", errors.Is(gotErr, ErrWidgetClosed), true)
	testutil.AssertEqual(t, "input ignored", p.Pipeline().ProvideInput(1), false)
}

func TestSessionSkipsHiddenLevelUp(t *testing.T) {
	out := &fakeWidgets{}
	p := entity.NewPlayer("alice", coord.New(3222, 3222, 0))
	got := 0
	err := New(out, p).Show(Options{Type: TypeLevelUp, LevelUpWidget: -1, Lines: []string{"a", "b"}}, func(c int, _ error) { got = c })
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	testutil.AssertEqual(t, "resolved", got, -1)
	testutil.AssertEqual(t, "nothing opened", len(out.opened), 0)
}
