// Package research turns a health topic into three micro-learning points,
// a summary, a title and sources by asking a text-generation service. It
// never fails: unusable replies and outages degrade to placeholder content.
package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	// PointCount is the number of points every Result carries.
	PointCount = 3
	// DefaultTimeout bounds an upstream call when no timeout is configured.
	DefaultTimeout = 30 * time.Second
)

// DefaultSources are cited when the service gives none or is unreachable.
var DefaultSources = []string{"World Health Organization (WHO)", "Ministry of Health"}

// Result is the normalized research output. Points always has PointCount
// non-empty entries and Sources at least one.
type Result struct {
	Points           []string `json:"points"`
	Summary          string   `json:"summary"`
	Sources          []string `json:"sources"`
	RecommendedTitle string   `json:"recommended_title"`
	Degraded         bool     `json:"degraded"`
}

func (r Result) clone() Result {
	r.Points = append([]string(nil), r.Points...)
	r.Sources = append([]string(nil), r.Sources...)
	return r
}

// TextGenerator is the summarization service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Researcher runs the research request and applies the fallback policy.
type Researcher struct {
	gen     TextGenerator
	timeout time.Duration
	cache   *cache.Cache
	group   singleflight.Group
}

type Option func(*Researcher)

// WithCache keeps successful results for ttl. A ttl <= 0 disables caching.
func WithCache(ttl time.Duration) Option {
	return func(r *Researcher) {
		if ttl > 0 {
			r.cache = cache.New(ttl, 2*ttl)
		}
	}
}

// WithTimeout bounds each upstream call. A d <= 0 keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Researcher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewResearcher(gen TextGenerator, opts ...Option) (*Researcher, error) {
	if gen == nil {
		return nil, errors.New("research: text generator is required")
	}
	r := &Researcher{gen: gen, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Research always returns a fully populated Result. Callers are expected
// to reject blank topics themselves; a blank topic yields generic content.
func (r *Researcher) Research(ctx context.Context, topic, orgName string) Result {
	topic = strings.TrimSpace(topic)
	orgName = strings.TrimSpace(orgName)
	key := topic + "\x00" + orgName

	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			slog.DebugContext(ctx, "research cache hit", "topic", topic)
			return v.(Result).clone()
		}
	}

	// The flight is detached from any one caller's cancellation; each caller
	// waits only as long as its own context allows.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		// a previous flight may have filled the cache after our lookup
		if r.cache != nil {
			if v, ok := r.cache.Get(key); ok {
				return v, nil
			}
		}
		res := r.research(flightCtx, topic, orgName)
		if r.cache != nil && !res.Degraded {
			r.cache.SetDefault(key, res)
		}
		return res, nil
	})

	select {
	case out := <-ch:
		return out.Val.(Result).clone()
	case <-ctx.Done():
		slog.WarnContext(ctx, "research abandoned by caller, using placeholders",
			"topic", topic, "error", ctx.Err())
		return Placeholder(topic)
	}
}

func (r *Researcher) research(ctx context.Context, topic, orgName string) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	raw, err := r.gen.GenerateText(ctx, BuildPrompt(topic, orgName))
	if err != nil {
		slog.WarnContext(ctx, "research request failed, using placeholders",
			"topic", topic, "error", err)
		return Placeholder(topic)
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		slog.WarnContext(ctx, "research reply unusable, salvaging lines",
			"topic", topic, "error", err)
		return salvage(raw, topic)
	}

	res := normalize(parsed, topic)
	slog.InfoContext(ctx, "research completed",
		"topic", topic, "sources", len(res.Sources),
		"duration", time.Since(started).Round(time.Millisecond))
	return res
}

// normalize enforces the Result invariants on a parsed reply.
func normalize(p Result, topic string) Result {
	res := Result{
		Points:           fitPoints(p.Points, topic),
		Summary:          strings.TrimSpace(p.Summary),
		Sources:          dedupeSources(p.Sources),
		RecommendedTitle: strings.TrimSpace(p.RecommendedTitle),
	}
	if res.Summary == "" {
		res.Summary = placeholderSummary(topic)
	}
	if res.RecommendedTitle == "" {
		res.RecommendedTitle = placeholderTitle(topic)
	}
	return res
}

func salvage(raw, topic string) Result {
	return Result{
		Points:           fitPoints(ExtractLines(raw, PointCount), topic),
		Summary:          placeholderSummary(topic),
		Sources:          append([]string(nil), DefaultSources...),
		RecommendedTitle: placeholderTitle(topic),
		Degraded:         true,
	}
}

// Placeholder is the result used when the service cannot be reached.
func Placeholder(topic string) Result {
	return Result{
		Points:           placeholderPoints(topic),
		Summary:          placeholderSummary(topic),
		Sources:          append([]string(nil), DefaultSources...),
		RecommendedTitle: placeholderTitle(topic),
		Degraded:         true,
	}
}

// fitPoints trims, drops blanks, truncates to PointCount and pads with
// topic placeholders.
func fitPoints(points []string, topic string) []string {
	out := make([]string, 0, PointCount)
	for _, p := range points {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
		if len(out) == PointCount {
			return out
		}
	}
	return append(out, placeholderPoints(topic)[len(out):]...)
}

func dedupeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return append(out, DefaultSources...)
	}
	return out
}

func subject(topic string) string {
	if topic == "" {
		return "الصحة العامة"
	}
	return topic
}

func placeholderPoints(topic string) []string {
	s := subject(topic)
	return []string{
		fmt.Sprintf("تعرّف على أساسيات %s وأهميتها لصحتك", s),
		fmt.Sprintf("اتبع إرشادات الوقاية الموصى بها بشأن %s", s),
		"استشر مقدم الرعاية الصحية عند ظهور أي أعراض",
	}
}

func placeholderSummary(topic string) string {
	return fmt.Sprintf("نقاط توعوية مختصرة حول %s.", subject(topic))
}

func placeholderTitle(topic string) string {
	return fmt.Sprintf("دليل سريع: %s", subject(topic))
}
