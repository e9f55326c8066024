package images

import (
	"context"

	"vinemarket-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// View is everything a client needs to render one listing image slot.
type View struct {
	Context     Context `json:"context"`
	Primary     string  `json:"primary"`
	Fallback    *string `json:"fallback"`
	Low         string  `json:"low,omitempty"`
	High        string  `json:"high,omitempty"`
	SkipBlur    bool    `json:"skipBlur"`
	Placeholder bool    `json:"placeholder"`
}

// FailureResult tells a client what to show after a load error.
type FailureResult struct {
	Stage Stage   `json:"stage"`
	Next  *string `json:"next"`
}

type Service struct {
	Resolver *Resolver
	Loaded   LoadedSet
}

// Views resolves ctx for every listing, keyed by listing id.
// A failing LoadedSet only disables blur skipping.
func (s *Service) Views(ctx context.Context, ls []domain.Listing, c Context) map[string]View {
	out := make(map[string]View, len(ls))
	var primaries []string
	for _, l := range ls {
		v := s.view(l, c)
		out[l.ID] = v
		if v.Primary != "" {
			primaries = append(primaries, v.Primary)
		}
	}
	if s.Loaded == nil || len(primaries) == 0 {
		return out
	}
	loaded, err := s.Loaded.Loaded(ctx, primaries...)
	if err != nil {
		log.Warn().Err(err).Msg("Loaded image lookup failed")
		return out
	}
	for id, v := range out {
		if loaded[v.Primary] {
			v.SkipBlur = true
			out[id] = v
		}
	}
	return out
}

// AllViews resolves every display context for one listing.
func (s *Service) AllViews(ctx context.Context, l domain.Listing) map[Context]View {
	out := make(map[Context]View, len(Contexts))
	for _, c := range Contexts {
		out[c] = s.Views(ctx, []domain.Listing{l}, c)[l.ID]
	}
	return out
}

// AfterFailure reports where an image slot goes after failedURL failed to load.
func (s *Service) AfterFailure(l domain.Listing, c Context, failedURL string) FailureResult {
	res, _ := s.Resolver.Resolve(l, c)
	a := ResumeAfter(res, failedURL)
	out := FailureResult{Stage: a.Stage()}
	if src := a.Src(); src != "" {
		out.Next = &src
	}
	return out
}

func (s *Service) MarkLoaded(ctx context.Context, url string) error {
	if s.Loaded == nil {
		return nil
	}
	return s.Loaded.MarkLoaded(ctx, url)
}

func (s *Service) view(l domain.Listing, c Context) View {
	res, ok := s.Resolver.Resolve(l, c)
	if !ok {
		return View{Context: c, Placeholder: true}
	}
	v := View{Context: c, Primary: res.Primary}
	if res.Fallback != "" {
		fb := res.Fallback
		v.Fallback = &fb
	}
	if p, ok := s.Resolver.Progressive(l, c); ok {
		v.Low, v.High = p.Low, p.High
	}
	return v
}
