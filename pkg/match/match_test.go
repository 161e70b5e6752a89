package match

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

const header = " ; [Site \"TestSite\"]\n ; [Player 1 \"Alice\"]\n ; [Player 2 \"Bob\"]\n 7 point match\n\n" +
	" Game 1\n Alice : 0                          Bob : 0\n"

func importString(t *testing.T, s string) *Match {
	t.Helper()
	m, err := ImportMAT(strings.NewReader(s))
	require.NoError(t, err)
	return m
}

func TestImportMAT(t *testing.T) {
	m := importString(t, header+
		"  1) 31: 8/5 6/5                    52: 13/8 13/11\n"+
		"  2)  Doubles => 2                  Takes\n"+
		"  3) 43:                            Drops\n"+
		"      Wins 1 point\n"+
		"\n Game 2\n Alice : 1                          Bob : 0\n"+
		"  1)                                66: 24/18(2) 13/7*(2)\n")

	require.Equal(t, "Alice", m.Player1)
	require.Equal(t, "Bob", m.Player2)
	require.Equal(t, "TestSite", m.Place)
	require.Equal(t, 7, m.MatchLength)
	require.Len(t, m.Games, 2)

	g := m.Games[0]
	require.Equal(t, 1, g.Number)
	require.Len(t, g.Actions, 6)
	require.Equal(t, Action{Type: ActionMove, Player: 0, Dice: [2]int{3, 1}, Steps: []Step{{8, 5}, {6, 5}}, Notation: "8/5 6/5"}, g.Actions[0])
	require.Equal(t, []Step{{13, 8}, {13, 11}}, g.Actions[1].Steps)
	require.Equal(t, ActionDouble, g.Actions[2].Type)
	require.Equal(t, ActionTake, g.Actions[3].Type)
	require.Equal(t, 1, g.Actions[3].Player)
	require.Equal(t, ActionMove, g.Actions[4].Type)
	require.Empty(t, g.Actions[4].Steps)
	require.Equal(t, ActionPass, g.Actions[5].Type)

	g = m.Games[1]
	require.Equal(t, 1, g.Score1)
	require.Len(t, g.Actions, 1)
	require.Equal(t, 1, g.Actions[0].Player)
	require.Len(t, g.Actions[0].Steps, 4)
}

func TestImportMATErrors(t *testing.T) {
	_, err := ImportMAT(strings.NewReader(header + "  1) 71: 8/5 6/5\n"))
	require.ErrorContains(t, err, "line 8")

	_, err = ImportMAT(strings.NewReader(header + "  1) 31: 8-5 6/5\n"))
	require.ErrorContains(t, err, "bad move")
}

func TestParseNotation(t *testing.T) {
	tests := []struct {
		in   string
		want []Step
	}{
		{"8/5 6/5", []Step{{8, 5}, {6, 5}}},
		{"24/22(2)", []Step{{24, 22}, {24, 22}}},
		{"bar/22*", []Step{{25, 22}}},
		{"13/7*/5", []Step{{13, 7}, {7, 5}}},
		{"6/off 5/Off", []Step{{6, 0}, {5, 0}}},
	}
	for _, tt := range tests {
		got, err := ParseNotation(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"8", "30/5", "8/x", "6/5(0)", "6/5(2 ", "8/7 7/6 6/5 5/4 4/3"} {
		_, err := ParseNotation(bad)
		require.Error(t, err, bad)
	}
}

func TestColorByPlayerIndex(t *testing.T) {
	m := importString(t, header+"  1) 31: 8/5 6/5\n")
	a := m.Games[0].Actions[0]
	require.Equal(t, 0, a.Player)
	require.Equal(t, engine.White, Color(a.Player))
	require.Equal(t, engine.Black, Color(1))
}

func TestApplySteps(t *testing.T) {
	start := engine.InitialBoard()

	b, err := ApplySteps(start, engine.White, []Step{{8, 5}, {6, 5}})
	require.NoError(t, err)
	want := start
	want[16].White--
	want[18].White--
	want[19].White += 2
	require.Equal(t, want, b)

	// Black 24/23 leaves a blot on index 22 that White 6/2 hits.
	b, err = ApplySteps(start, engine.Black, []Step{{24, 23}})
	require.NoError(t, err)
	b, err = ApplySteps(b, engine.White, []Step{{6, 2}})
	require.NoError(t, err)
	require.Equal(t, uint8(1), b[22].White)
	require.Equal(t, uint8(0), b[22].Black)
	require.Equal(t, uint8(1), b[engine.BlackBar].Black)
	require.NoError(t, b.Validate())

	_, err = ApplySteps(start, engine.White, []Step{{7, 3}})
	require.ErrorIs(t, err, ErrIllegalPlay)

	_, err = ApplySteps(start, engine.White, []Step{{24, 19}})
	require.ErrorIs(t, err, ErrIllegalPlay)
}

func TestAuditLegalGame(t *testing.T) {
	m := importString(t, header+
		"  1) 31: 8/5 6/5                    52: 13/8 13/11\n"+
		"  2) 64: 24/18 13/9                 43: 24/20 24/21\n")
	// Bob's 24/20 lands on Alice's 5 point, so that play is replaced.
	m.Games[0].Actions[3].Steps = []Step{{13, 9}, {13, 10}}
	m.Games[0].Actions[3].Notation = "13/9 13/10"

	rep, err := Audit(context.Background(), engine.NewEngine(engine.EngineOptions{}), m, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 1, rep.Games)
	require.Equal(t, 4, rep.Plays)
	require.Empty(t, rep.Findings)
}

func TestAuditFindings(t *testing.T) {
	m := importString(t, header+
		"  1) 31: 8/5 6/5                    52: 13/8 13/11\n"+
		"  2) 64: 24/18 13/9                 43: 13/9\n"+
		"  3) 21: 13/11 6/5                  65: 24/20 24/18\n"+
		"  4) 11: 6/5(4)                     33: 8/5(2)\n")

	rep, err := Audit(context.Background(), engine.NewEngine(engine.EngineOptions{}), m, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 6, rep.Plays)
	require.Len(t, rep.Findings, 2)

	f := rep.Findings[0]
	require.Equal(t, 3, f.Action)
	require.Equal(t, "Bob", f.Player)
	require.Equal(t, [2]int{4, 3}, f.Dice)
	require.ErrorIs(t, f.Err, ErrIllegalPlay)
	require.Contains(t, f.String(), "game 1, action 4: Bob 43")

	// 24/20 is blocked by Alice's 5 point; the rest of the game is skipped.
	f = rep.Findings[1]
	require.Equal(t, 5, f.Action)
	require.ErrorIs(t, f.Err, ErrIllegalPlay)
	require.Contains(t, f.Err.Error(), "blocked")
}
