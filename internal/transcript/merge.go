package transcript

import "strings"

// Separators inserted between per-source texts during a merge. The
// continuation marker is user-visible in the rendered transcript, so it is
// deliberately language-neutral.
const (
	textSeparator         = "\n\n"
	continuationSeparator = "\n\n--- (continued) ---\n\n"
)

// Merge combines results from multiple sources (or chunks of one oversized
// source) into a single logical transcript. results must contain at least
// one element; callers are expected to take the "no usable sources" failure
// path before ever reaching Merge.
//
// Derivation, for inputs in arrival order:
//   - FullText: joined with a blank line.
//   - SpeakerText: joined with a visible continuation marker.
//   - SpeakerCount: the max across inputs. Speaker numbering is
//     per-source-relative, so "Speaker 1" in two sources is almost certainly
//     two different people; the max is a conservative bound, never a sum.
//     Cross-source speaker identity is knowingly not reconciled.
//   - Language: the first input's.
//   - DurationSeconds: the sum.
//
// A single-element input is returned unchanged (no separators). Merge is
// pure: same input sequence, same output, always.
func Merge(results []Result) Result {
	if len(results) == 1 {
		return results[0]
	}

	fullParts := make([]string, 0, len(results))
	speakerParts := make([]string, 0, len(results))
	maxSpeakers := 0
	totalDuration := 0.0

	for _, r := range results {
		fullParts = append(fullParts, r.FullText)
		speakerParts = append(speakerParts, r.SpeakerText)
		if r.SpeakerCount > maxSpeakers {
			maxSpeakers = r.SpeakerCount
		}
		totalDuration += r.DurationSeconds
	}

	return Result{
		FullText:        strings.Join(fullParts, textSeparator),
		SpeakerText:     strings.Join(speakerParts, continuationSeparator),
		SpeakerCount:    maxSpeakers,
		Language:        results[0].Language,
		DurationSeconds: totalDuration,
	}
}
