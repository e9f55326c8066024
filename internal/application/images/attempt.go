package images

// Stage is how far an image load has degraded.
type Stage string

const (
	StagePrimary     Stage = "primary"
	StageFallback    Stage = "fallback"
	StagePlaceholder Stage = "placeholder"
)

// LoadAttempt tracks one image slot: primary first, the fallback exactly once,
// then the static placeholder. It never retries a URL.
type LoadAttempt struct {
	res   Resolution
	stage Stage
}

func NewLoadAttempt(res Resolution) *LoadAttempt {
	a := &LoadAttempt{res: res, stage: StagePrimary}
	if res.Primary == "" {
		a.stage = StagePlaceholder
	}
	return a
}

// ResumeAfter positions an attempt as if failed had just failed to load.
// A URL that is neither primary nor fallback leaves the attempt at the primary.
func ResumeAfter(res Resolution, failed string) *LoadAttempt {
	a := NewLoadAttempt(res)
	switch {
	case failed == "":
	case failed == res.Primary:
		a.Fail()
	case res.Fallback != "" && failed == res.Fallback:
		a.stage = StagePlaceholder
	}
	return a
}

func (a *LoadAttempt) Stage() Stage { return a.stage }

// Src is the URL to load now, empty once the placeholder is showing.
func (a *LoadAttempt) Src() string {
	switch a.stage {
	case StagePrimary:
		return a.res.Primary
	case StageFallback:
		return a.res.Fallback
	default:
		return ""
	}
}

// Fail records a load error on the current URL and returns the next stage.
func (a *LoadAttempt) Fail() Stage {
	switch a.stage {
	case StagePrimary:
		if a.res.Fallback != "" && a.res.Fallback != a.res.Primary {
			a.stage = StageFallback
		} else {
			a.stage = StagePlaceholder
		}
	case StageFallback:
		a.stage = StagePlaceholder
	}
	return a.stage
}
