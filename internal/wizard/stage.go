package wizard

type Stage int

const (
	StageTopic Stage = iota
	StageTitlePick
	StageOutline
	StageReviewEdit
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageTopic:
		return "topic"
	case StageTitlePick:
		return "title"
	case StageOutline:
		return "outline"
	case StageReviewEdit:
		return "review"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Step is the 1-based position shown to the user.
func (s Stage) Step() int { return int(s) + 1 }

const Steps = int(StageDone) + 1
