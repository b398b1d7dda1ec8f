package domain

import (
	"strings"

	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
)

// Score weights. The direct match (they teach what I want) outweighs
// the reverse one, and a karma bonus rewards reliable peers.
const (
	DirectMatchPoints  = 50
	ReverseMatchPoints = 30
	KarmaBonusCap      = 20
)

// Score rates how compatible two profiles are, in points. It depends
// only on the two skill sets of each side and the candidate's karma;
// label order never matters and labels compare case-insensitively.
// Nil profiles score zero. The sum is deliberately not clamped.
func Score(me, them *profiledomain.Profile) int {
	if me == nil || them == nil {
		return 0
	}

	score := 0
	if anyOverlap(me.SkillsLearning, them.SkillsTeaching) {
		score += DirectMatchPoints
	}
	if anyOverlap(them.SkillsLearning, me.SkillsTeaching) {
		score += ReverseMatchPoints
	}

	bonus := them.Karma
	if bonus > KarmaBonusCap {
		bonus = KarmaBonusCap
	}
	if bonus > 0 {
		score += bonus
	}
	return score
}

func anyOverlap(wanted, offered []string) bool {
	if len(wanted) == 0 || len(offered) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(offered))
	for _, s := range offered {
		set[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range wanted {
		if _, ok := set[strings.ToLower(s)]; ok {
			return true
		}
	}
	return false
}
