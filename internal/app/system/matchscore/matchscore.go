// internal/app/system/matchscore/matchscore.go

// Package matchscore ranks candidate users against a viewer for
// /users/matches/suggestions. Scoring is pure arithmetic over skill and
// interest lists so it can be unit tested without a database.
package matchscore

import (
	"sort"
	"strings"

	"github.com/skillsync/skillsync/internal/domain/models"
)

// Weights for the score components. Shared skills dominate; a candidate
// who has what the viewer wants to learn scores next; shared interests
// break near-ties.
const (
	sharedSkillWeight   = 3.0
	complementaryWeight = 2.0
	interestWeight      = 1.0
)

// Breakdown is the per-component score for one candidate.
type Breakdown struct {
	Total         float64  `json:"total"`
	SkillOverlap  float64  `json:"skillOverlap"`
	Complementary float64  `json:"complementary"`
	Interests     float64  `json:"interests"`
	SharedSkills  []string `json:"sharedSkills"`
	OfferedSkills []string `json:"offeredSkills"`
}

// Candidate pairs a user with their score against the viewer.
type Candidate struct {
	User  models.User `json:"user"`
	Score Breakdown   `json:"score"`
}

// Score computes the match breakdown of candidate against viewer.
//
// Shared skills are weighted by the lower of the two proficiency levels:
// two experts in Go match more strongly than an expert and a novice.
// Complementary skills are candidate skills named in the viewer's
// interests, weighted by the candidate's level.
func Score(viewer, candidate models.User) Breakdown {
	var b Breakdown

	viewerLevels := skillLevels(viewer.Skills)
	viewerInterests := foldSet(viewer.Interests)
	candidateInterests := foldSet(candidate.Interests)

	for _, s := range candidate.Skills {
		key := fold(s.Name)
		if lvl, ok := viewerLevels[key]; ok {
			b.SkillOverlap += sharedSkillWeight * float64(min(lvl, s.Level))
			b.SharedSkills = append(b.SharedSkills, s.Name)
		} else if _, wanted := viewerInterests[key]; wanted {
			b.Complementary += complementaryWeight * float64(s.Level)
			b.OfferedSkills = append(b.OfferedSkills, s.Name)
		}
	}

	for interest := range viewerInterests {
		if _, ok := candidateInterests[interest]; ok {
			b.Interests += interestWeight
		}
	}

	b.Total = b.SkillOverlap + b.Complementary + b.Interests
	return b
}

// Rank scores pool against viewer, drops zero-score and excluded users,
// and returns the top limit candidates. Ties are broken by username so
// the ordering is deterministic.
func Rank(viewer models.User, pool []models.User, excluded map[string]struct{}, limit int) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, u := range pool {
		if u.ID == viewer.ID {
			continue
		}
		if _, skip := excluded[u.ID.Hex()]; skip {
			continue
		}
		score := Score(viewer, u)
		if score.Total <= 0 {
			continue
		}
		out = append(out, Candidate{User: u, Score: score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score.Total != out[j].Score.Total {
			return out[i].Score.Total > out[j].Score.Total
		}
		return out[i].User.Username < out[j].User.Username
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func skillLevels(skills []models.UserSkill) map[string]int {
	m := make(map[string]int, len(skills))
	for _, s := range skills {
		m[fold(s.Name)] = s.Level
	}
	return m
}

func foldSet(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[fold(n)] = struct{}{}
	}
	return m
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
