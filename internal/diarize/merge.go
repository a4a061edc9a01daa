package diarize

import (
	"strings"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/transcribe"
)

// UnknownSpeaker labels segments no diarization turn overlaps.
const UnknownSpeaker = "unknown"

// Merge assigns each transcript segment the speaker whose turn has the
// largest temporal overlap with the segment's [start, end) interval.
// Ties go to the turn that starts earliest. The input slice is returned
// with Speaker filled in; segment order is unchanged.
func Merge(segments []transcribe.Segment, turns []Turn) []transcribe.Segment {
	if len(turns) == 0 {
		return segments
	}
	for i := range segments {
		segments[i].Speaker = speakerFor(segments[i], turns)
	}
	return segments
}

func speakerFor(seg transcribe.Segment, turns []Turn) string {
	best := UnknownSpeaker
	bestOverlap := 0.0
	bestStart := 0.0
	for _, t := range turns {
		overlap := min(seg.End, t.End) - max(seg.Start, t.Start)
		if overlap <= 0 {
			continue
		}
		if overlap > bestOverlap || (overlap == bestOverlap && best != UnknownSpeaker && t.Start < bestStart) {
			best = t.Speaker
			bestOverlap = overlap
			bestStart = t.Start
		}
	}
	return best
}

// Summarize derives per-speaker totals from the merged segments, not
// from the raw turns, so the summary always agrees with what the caller
// displays. Unlabeled segments are excluded.
func Summarize(segments []transcribe.Segment) map[string]SpeakerStat {
	summary := make(map[string]SpeakerStat)
	for _, seg := range segments {
		if seg.Speaker == "" || seg.Speaker == UnknownSpeaker {
			continue
		}
		stat := summary[seg.Speaker]
		stat.Seconds += seg.End - seg.Start
		stat.Segments++
		stat.Words += len(strings.Fields(seg.Text))
		summary[seg.Speaker] = stat
	}
	return summary
}
