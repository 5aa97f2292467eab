// Package achievement holds the achievement catalogue and its declarative
// unlock rules. Rules are pure predicates over a stats snapshot and the
// latest proficiency result; granting is done by the services layer.
package achievement

import (
	"fmt"

	"github.com/vytor/quizflash/internal/models"
)

// Metric names a number a rule can compare against.
type Metric string

const (
	MetricQuestionsAnswered Metric = "questions_answered"
	MetricQuestionsCorrect  Metric = "questions_correct"
	MetricStreakCurrent     Metric = "streak_current"
	MetricStreakMax         Metric = "streak_max"
	MetricBattlesPlayed     Metric = "battles_played"
	MetricBattlesPerfect    Metric = "battles_perfect"
	MetricXPTotal           Metric = "xp_total"
	MetricProficiencyScore  Metric = "proficiency_score"
	MetricProficiencyHard   Metric = "proficiency_hard_correct"
)

// Condition is satisfied when Metric >= Threshold. Proficiency metrics are
// never satisfied without a proficiency result.
type Condition struct {
	Metric    Metric `json:"metric"`
	Threshold int    `json:"threshold"`
}

func (c Condition) String() string {
	return fmt.Sprintf("%s >= %d", c.Metric, c.Threshold)
}

// Satisfied evaluates the condition. latest may be nil.
func (c Condition) Satisfied(stats models.UserStats, latest *models.ProficiencyResult) bool {
	v, ok := value(c.Metric, stats, latest)
	return ok && v >= c.Threshold
}

func value(m Metric, s models.UserStats, p *models.ProficiencyResult) (int, bool) {
	switch m {
	case MetricQuestionsAnswered:
		return s.QuestionsAnswered, true
	case MetricQuestionsCorrect:
		return s.QuestionsCorrect, true
	case MetricStreakCurrent:
		return s.StreakCurrent, true
	case MetricStreakMax:
		return s.StreakMax, true
	case MetricBattlesPlayed:
		return s.BattlesPlayed, true
	case MetricBattlesPerfect:
		return s.BattlesPerfect, true
	case MetricXPTotal:
		return s.XPTotal, true
	case MetricProficiencyScore:
		if p == nil {
			return 0, false
		}
		return p.Score, true
	case MetricProficiencyHard:
		if p == nil {
			return 0, false
		}
		return p.PerTierBreakdown.Hard.Correct, true
	}
	return 0, false
}

func knownMetric(m Metric) bool {
	switch m {
	case MetricQuestionsAnswered, MetricQuestionsCorrect, MetricStreakCurrent, MetricStreakMax,
		MetricBattlesPlayed, MetricBattlesPerfect, MetricXPTotal, MetricProficiencyScore, MetricProficiencyHard:
		return true
	}
	return false
}

// Definition is one catalogue entry: a condition and the XP granted on unlock.
type Definition struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Condition   Condition `json:"condition"`
	XPBonus     int       `json:"xp_bonus"`
}

// Achievement is the public view of d.
func (d Definition) Achievement() models.Achievement {
	return models.Achievement{ID: d.ID, Title: d.Title, Description: d.Description, XPBonus: d.XPBonus}
}

// Catalogue is the ordered, static list of achievements.
type Catalogue struct {
	defs []Definition
	byID map[string]int
}

// DefaultDefinitions is evaluated in this order.
var DefaultDefinitions = []Definition{
	{ID: "first_answer", Title: "Primeiros Passos", Description: "Responda sua primeira questão", Condition: Condition{MetricQuestionsAnswered, 1}, XPBonus: 10},
	{ID: "correct_10", Title: "Aquecendo", Description: "Acerte 10 questões", Condition: Condition{MetricQuestionsCorrect, 10}, XPBonus: 20},
	{ID: "correct_100", Title: "Centena", Description: "Acerte 100 questões", Condition: Condition{MetricQuestionsCorrect, 100}, XPBonus: 100},
	{ID: "correct_500", Title: "Maratonista", Description: "Acerte 500 questões", Condition: Condition{MetricQuestionsCorrect, 500}, XPBonus: 300},
	{ID: "streak_3", Title: "Constância", Description: "Estude 3 dias seguidos", Condition: Condition{MetricStreakMax, 3}, XPBonus: 30},
	{ID: "streak_7", Title: "Semana Perfeita", Description: "Estude 7 dias seguidos", Condition: Condition{MetricStreakMax, 7}, XPBonus: 70},
	{ID: "streak_30", Title: "Mês de Foco", Description: "Estude 30 dias seguidos", Condition: Condition{MetricStreakMax, 30}, XPBonus: 300},
	{ID: "first_battle", Title: "Duelista", Description: "Jogue sua primeira batalha", Condition: Condition{MetricBattlesPlayed, 1}, XPBonus: 15},
	{ID: "perfect_battle", Title: "Sem Erros", Description: "Vença uma batalha sem errar", Condition: Condition{MetricBattlesPerfect, 1}, XPBonus: 50},
	{ID: "perfect_battle_10", Title: "Invicto", Description: "Vença 10 batalhas sem errar", Condition: Condition{MetricBattlesPerfect, 10}, XPBonus: 200},
	{ID: "xp_1000", Title: "Mil Pontos", Description: "Acumule 1.000 XP", Condition: Condition{MetricXPTotal, 1000}, XPBonus: 50},
	{ID: "proficiency_600", Title: "Intermediário", Description: "Alcance 600 pontos em uma avaliação", Condition: Condition{MetricProficiencyScore, 600}, XPBonus: 60},
	{ID: "proficiency_750", Title: "Avançado", Description: "Alcance 750 pontos em uma avaliação", Condition: Condition{MetricProficiencyScore, 750}, XPBonus: 150},
	{ID: "hard_5", Title: "Destemido", Description: "Acerte 5 questões difíceis em uma avaliação", Condition: Condition{MetricProficiencyHard, 5}, XPBonus: 80},
}

// NewCatalogue validates defs: ids are unique and non-empty, metrics known,
// bonuses non-negative.
func NewCatalogue(defs []Definition) (*Catalogue, error) {
	c := &Catalogue{
		defs: make([]Definition, len(defs)),
		byID: make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)
	for i, d := range c.defs {
		if d.ID == "" {
			return nil, fmt.Errorf("achievement %d has no id", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id %q", d.ID)
		}
		if !knownMetric(d.Condition.Metric) {
			return nil, fmt.Errorf("achievement %q: unknown metric %q", d.ID, d.Condition.Metric)
		}
		if d.XPBonus < 0 {
			return nil, fmt.Errorf("achievement %q: negative xp bonus", d.ID)
		}
		c.byID[d.ID] = i
	}
	return c, nil
}

// Default returns the shipped catalogue.
func Default() *Catalogue {
	c, err := NewCatalogue(DefaultDefinitions)
	if err != nil {
		panic(err)
	}
	return c
}

// Definitions returns the catalogue in declared order.
func (c *Catalogue) Definitions() []Definition {
	cp := make([]Definition, len(c.defs))
	copy(cp, c.defs)
	return cp
}

func (c *Catalogue) Get(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Satisfied returns every definition whose condition holds, in catalogue
// order. All conditions are checked on every call.
func (c *Catalogue) Satisfied(stats models.UserStats, latest *models.ProficiencyResult) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if d.Condition.Satisfied(stats, latest) {
			out = append(out, d)
		}
	}
	return out
}
