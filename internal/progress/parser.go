package progress

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"video-compressor/internal/models"
)

var (
	durationRegex = regexp.MustCompile(`Duration: (\d{2}:\d{2}:\d{2}\.\d{2})`)
	timeRegex     = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.\d{2})`)
)

// maxTailBytes bounds the carry-over buffer between chunks. ffmpeg stats
// lines are short, so anything beyond this cannot be a split marker.
const maxTailBytes = 1024

// Parser extracts completion percentages from ffmpeg's stderr output.
// It is stateful: the stream declares the total duration once, then
// reports the current encode position repeatedly. A marker may be split
// across chunk boundaries, so the unterminated tail of each chunk is
// carried into the next Feed call.
//
// If the duration line never appears the parser emits nothing; the
// supervisor still pushes a final 100 on success.
type Parser struct {
	buf           string
	totalDuration float64
}

func NewParser() *Parser {
	return &Parser{}
}

// Feed consumes one chunk of stderr output and returns the progress
// events it completes. Malformed or partial timestamps are skipped.
func (p *Parser) Feed(chunk string) []models.ProgressEvent {
	p.buf += chunk

	if p.totalDuration == 0 {
		if m := durationRegex.FindStringSubmatch(p.buf); m != nil {
			if secs, err := timestampSeconds(m[1]); err == nil && secs > 0 {
				p.totalDuration = secs
			}
		}
	}

	var events []models.ProgressEvent
	consumed := 0
	for _, m := range timeRegex.FindAllStringSubmatchIndex(p.buf, -1) {
		consumed = m[1]
		if p.totalDuration == 0 {
			continue
		}
		secs, err := timestampSeconds(p.buf[m[2]:m[3]])
		if err != nil {
			continue
		}
		percent := int(math.Round(secs / p.totalDuration * 100))
		events = append(events, models.NewProgressEvent(percent))
	}

	p.trim(consumed)
	return events
}

// trim drops everything already matched, keeping the tail after the last
// line terminator so a marker split across chunks still matches.
func (p *Parser) trim(consumed int) {
	cut := consumed
	if idx := strings.LastIndexAny(p.buf, "\r\n"); idx+1 > cut {
		cut = idx + 1
	}
	p.buf = p.buf[cut:]
	if len(p.buf) > maxTailBytes {
		p.buf = p.buf[len(p.buf)-maxTailBytes:]
	}
}

func timestampSeconds(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}
	h, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + s, nil
}
