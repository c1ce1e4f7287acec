// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import "time"

const millisPerDay = 24 * 60 * 60 * 1000

// NextSchedule maps a review stage and a recall difficulty to the new stage
// and the next review time in epoch milliseconds. Pure function; callers
// apply the result to an entry and feed it back through Store.Update.
//
// easy jumps two stages and schedules 7 days per stage out; good advances
// one stage at 2 days per stage; hard drops a stage. A stage of zero always
// comes back in one day.
func NextSchedule(stage int, d Difficulty, now time.Time) (int, int64) {
	var newStage, days int
	switch d {
	case DifficultyEasy:
		newStage = clampStage(stage + 2)
		days = 7 * newStage
	case DifficultyGood:
		newStage = clampStage(stage + 1)
		days = 2 * newStage
	case DifficultyHard:
		newStage = clampStage(stage - 1)
		days = 1
	default:
		newStage = clampStage(stage)
		days = 1
	}
	if newStage == 0 {
		days = 1
	}
	return newStage, now.UnixMilli() + int64(days)*millisPerDay
}

// ParseDifficulty maps user input to a Difficulty, defaulting to good.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyGood, DifficultyHard:
		return Difficulty(s), true
	}
	return DifficultyGood, false
}
