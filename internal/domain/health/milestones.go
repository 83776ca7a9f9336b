// Package health tracks recovery milestones measured from the quit date.
package health

import "github.com/vapeless/vapeless/internal/domain/model"

// Milestone is a static recovery marker reached after a fixed time
// without use.
type Milestone struct {
	ID           string
	Title        string
	Description  string
	TimeRequired int64 // seconds since quit date
	Category     string
}

// Progress pairs a milestone with how far along the user is.
type Progress struct {
	Milestone Milestone
	Percent   int // 0..100
	Reached   bool
}

// Milestones is the static, process-wide milestone set.
var Milestones = []Milestone{
	{ID: "1", Title: "Heart Rate Drops", Description: "Your heart rate and blood pressure start to return to normal.", TimeRequired: 1_200, Category: "heart"},
	{ID: "2", Title: "Carbon Monoxide Levels", Description: "Carbon monoxide levels in your blood drop to normal.", TimeRequired: 43_200, Category: "general"},
	{ID: "3", Title: "Lung Function", Description: "Lung function and circulation begin to improve.", TimeRequired: 172_800, Category: "lung"},
	{ID: "4", Title: "Shortness of Breath", Description: "Coughing and shortness of breath decrease significantly.", TimeRequired: 2_592_000, Category: "lung"},
	{ID: "5", Title: "Risk of Heart Attack", Description: "Your risk of heart attack drops by 50% compared to a smoker.", TimeRequired: 31_536_000, Category: "heart"},
}

// Evaluate returns per-milestone progress at nowMs. Without a quit date
// every milestone sits at zero; a future quit date behaves the same.
func Evaluate(plan model.PlanConfig, nowMs int64) []Progress {
	out := make([]Progress, 0, len(Milestones))
	var elapsed int64
	if plan.QuitDateMs != nil && *plan.QuitDateMs <= nowMs {
		elapsed = (nowMs - *plan.QuitDateMs) / 1000
	}
	for _, m := range Milestones {
		pct := 0
		if m.TimeRequired > 0 && elapsed > 0 {
			pct = int(elapsed * 100 / m.TimeRequired)
			if pct > 100 {
				pct = 100
			}
		}
		out = append(out, Progress{Milestone: m, Percent: pct, Reached: pct >= 100})
	}
	return out
}
