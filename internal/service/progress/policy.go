package progress

import (
	"time"

	"inkwell/internal/domain/models"
)

// IsUnlocked reports whether AI-assisted features are available at the given
// word count. Pure and re-evaluated on every save: the gate re-locks if
// content is replaced with something shorter.
func IsUnlocked(wordCount, threshold int) bool {
	return wordCount >= threshold
}

// WordsToUnlock returns how many words remain until the gate opens, 0 once
// unlocked.
func WordsToUnlock(wordCount, threshold int) int {
	if wordCount >= threshold {
		return 0
	}
	return threshold - wordCount
}

// SnapshotDecision is the outcome of the snapshot policy for one save
type SnapshotDecision struct {
	Create bool
	Stage  models.SnapshotStage
}

// DecideSnapshot applies the snapshot policy to one save. Any one trigger
// suffices:
//
//  1. the document has no snapshot yet (first save),
//  2. the cooldown since the last snapshot has elapsed,
//  3. this save crosses the unlock threshold for the first time.
//
// The first save is stamped INITIAL_DRAFT; later triggers are stamped
// POST_AI_FEEDBACK once the document is unlocked, INITIAL_DRAFT while it is
// still below the threshold. The terminal finish operation bypasses this
// policy entirely and force-creates a FINAL_VERSION snapshot.
func DecideSnapshot(prevWords, newWords, threshold int, lastSnapshotAt *time.Time, cooldown time.Duration, now time.Time) SnapshotDecision {
	if lastSnapshotAt == nil {
		return SnapshotDecision{Create: true, Stage: models.StageInitialDraft}
	}

	crossed := prevWords < threshold && newWords >= threshold
	cooled := now.Sub(*lastSnapshotAt) > cooldown
	if !crossed && !cooled {
		return SnapshotDecision{}
	}

	if IsUnlocked(newWords, threshold) {
		return SnapshotDecision{Create: true, Stage: models.StagePostAIFeedback}
	}
	return SnapshotDecision{Create: true, Stage: models.StageInitialDraft}
}
