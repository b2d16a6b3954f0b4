package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// KeywordPipeline is the manual orchestration variant: a keyword gate filters
// out non-weather chit-chat before the costly extraction call, then the city
// is extracted, weather fetched, and the reply synthesized. The gate trades
// recall (weather queries phrased without a trigger word are missed) for
// lower cost and latency.
type KeywordPipeline struct {
	extractor   *CityExtractor
	synthesizer *Synthesizer
	fetcher     WeatherFetcher
	keywords    []string
}

var _ Pipeline = (*KeywordPipeline)(nil)

// NewKeywordPipeline wires the manual pipeline. An empty keyword list falls
// back to DefaultKeywords.
func NewKeywordPipeline(extractor *CityExtractor, synthesizer *Synthesizer, fetcher WeatherFetcher, keywords []string) *KeywordPipeline {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &KeywordPipeline{
		extractor:   extractor,
		synthesizer: synthesizer,
		fetcher:     fetcher,
		keywords:    keywords,
	}
}

// Respond runs the per-message state machine. Every terminal state yields a
// reply string; no fault escapes to the caller.
func (p *KeywordPipeline) Respond(ctx context.Context, message string) string {
	if !p.matchesKeyword(message) {
		return p.synthesizer.Synthesize(ctx, message, nil)
	}

	city, ok := p.extractor.ExtractCity(ctx, message)
	if !ok {
		return cityClarification
	}

	snapshot, err := p.fetcher.Fetch(ctx, city)
	if err != nil {
		log.Printf("Weather fetch failed for %q: %v", city, err)
		return fmt.Sprintf(weatherNotFound, city)
	}

	return p.synthesizer.Synthesize(ctx, message, snapshot)
}

func (p *KeywordPipeline) matchesKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range p.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
