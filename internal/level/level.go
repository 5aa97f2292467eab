// Package level maps cumulative XP to a level and title. Levels are always
// derived from the XP total and never stored on their own.
package level

import (
	"fmt"
	"sort"

	"github.com/vytor/quizflash/internal/models"
)

// Definition is one row of the level table.
type Definition struct {
	Level      int    `json:"level"`
	Title      string `json:"title"`
	XPRequired int    `json:"xp_required"`
}

// Table is an immutable ordered level table.
type Table struct {
	defs []Definition
}

// DefaultDefinitions is the level table shipped with the app.
var DefaultDefinitions = []Definition{
	{Level: 1, Title: "Novato", XPRequired: 0},
	{Level: 2, Title: "Aprendiz", XPRequired: 100},
	{Level: 3, Title: "Estudante", XPRequired: 250},
	{Level: 4, Title: "Dedicado", XPRequired: 500},
	{Level: 5, Title: "Estudioso", XPRequired: 1000},
	{Level: 6, Title: "Especialista", XPRequired: 2000},
	{Level: 7, Title: "Mestre", XPRequired: 3500},
	{Level: 8, Title: "Sábio", XPRequired: 5500},
	{Level: 9, Title: "Lenda", XPRequired: 8000},
	{Level: 10, Title: "Lenda Suprema", XPRequired: 12000},
}

// NewTable validates defs and copies them. The first entry must start at
// 0 XP so every total has a level, and XPRequired must strictly increase.
func NewTable(defs []Definition) (*Table, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("level table is empty")
	}
	if defs[0].XPRequired != 0 {
		return nil, fmt.Errorf("first level must require 0 XP, got %d", defs[0].XPRequired)
	}
	for i := 1; i < len(defs); i++ {
		if defs[i].XPRequired <= defs[i-1].XPRequired {
			return nil, fmt.Errorf("level %d: xp_required %d is not greater than %d",
				defs[i].Level, defs[i].XPRequired, defs[i-1].XPRequired)
		}
		if defs[i].Level <= defs[i-1].Level {
			return nil, fmt.Errorf("level numbers must increase, got %d after %d", defs[i].Level, defs[i-1].Level)
		}
	}
	cp := make([]Definition, len(defs))
	copy(cp, defs)
	return &Table{defs: cp}, nil
}

// Default returns the table built from DefaultDefinitions.
func Default() *Table {
	t, err := NewTable(DefaultDefinitions)
	if err != nil {
		panic(err)
	}
	return t
}

// Definitions returns a copy of the table rows.
func (t *Table) Definitions() []Definition {
	cp := make([]Definition, len(t.defs))
	copy(cp, t.defs)
	return cp
}

// For returns the level for xpTotal: the highest row whose XPRequired is at
// most xpTotal. Negative totals resolve to the first level.
func (t *Table) For(xpTotal int) models.LevelInfo {
	// index of the first row above xpTotal
	next := sort.Search(len(t.defs), func(i int) bool {
		return t.defs[i].XPRequired > xpTotal
	})
	cur := next - 1
	if cur < 0 {
		cur = 0
	}
	def := t.defs[cur]

	info := models.LevelInfo{
		Level:             def.Level,
		Title:             def.Title,
		XPTotal:           xpTotal,
		XPForCurrentLevel: def.XPRequired,
	}

	if cur == len(t.defs)-1 {
		info.XPForNextLevel = def.XPRequired
		info.ProgressPct = 100
		info.MaxLevel = true
		return info
	}

	nextReq := t.defs[cur+1].XPRequired
	info.XPForNextLevel = nextReq
	info.XPToNext = nextReq - xpTotal

	gained := xpTotal - def.XPRequired
	if gained < 0 {
		gained = 0
	}
	info.ProgressPct = 100 * gained / (nextReq - def.XPRequired)
	return info
}

// LeveledUp reports whether going from before to after XP crosses a level.
func (t *Table) LeveledUp(before, after int) bool {
	return t.For(after).Level > t.For(before).Level
}
