package segmenter

import "strings"

// splitWindow is the legacy fixed-window fallback, used only when the
// generic strategy finds no boundaries at all. Windows carry a character
// overlap and are nudged backward to the nearest break when that break
// falls after half the window, to avoid mid-sentence cuts. Iteration is
// capped to guarantee termination on degenerate input.
func (s *Segmenter) splitWindow(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	start := 0

	for start < len(text) && len(chunks) < s.maxChunks {
		end := start + s.windowSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		// Nudge the cut backward to a sentence, paragraph or line break,
		// but only when the break keeps at least half the window.
		if brk := nearestBreak(text[start:end]); brk > s.windowSize/2 {
			end = start + brk
		}

		chunks = append(chunks, text[start:end])

		next := end - s.overlap
		if next <= start {
			// Overlap would stall the walk; step forward instead.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// nearestBreak returns the offset just past the last sentence, paragraph
// or newline break within the window, or -1 when none exists. Sentence
// breaks are preferred over paragraph breaks over plain newlines.
func nearestBreak(window string) int {
	for _, find := range []func(string) int{
		lastSentenceBreak,
		func(w string) int { return strings.LastIndex(w, "\n\n") },
		func(w string) int { return strings.LastIndex(w, "\n") },
	} {
		if idx := find(window); idx >= 0 {
			return idx + 1
		}
	}
	return -1
}

// lastSentenceBreak finds the last terminator followed by whitespace.
func lastSentenceBreak(window string) int {
	for i := len(window) - 2; i >= 0; i-- {
		c := window[i]
		if c == '.' || c == '!' || c == '?' {
			next := window[i+1]
			if next == ' ' || next == '\t' || next == '\n' {
				return i
			}
		}
	}
	return -1
}
