package csvcore

import "strings"

// detectDelimiter implements the auto-detector (spec §4.3): split sample
// into logical lines, strip quoted regions, tally each candidate's
// occurrences per line, and keep only the candidates present on every line
// sampled, ranked by their total count. Ties break by position in
// d.DetectDelimiterCandidates. Grounded
// on the per-line tally approach a MIME-sniffing CSV detector in the
// example pack uses to pick a separator before fully parsing.
func detectDelimiter(sample string, d *Dialect) (string, error) {
	lines := splitSampleLines(sample, d)
	if len(lines) > 1 {
		// A sample rarely ends on a full line; drop a possibly-truncated
		// last one so it doesn't skew the tally.
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return d.Delimiter, nil
	}

	counts := make([][]int, len(lines))
	for li, line := range lines {
		stripped := stripQuotedRegions(line, d)
		counts[li] = make([]int, len(d.DetectDelimiterCandidates))
		for ci, cand := range d.DetectDelimiterCandidates {
			counts[li][ci] = strings.Count(stripped, cand)
		}
	}

	best := -1
	bestCount := -1
	for ci := range d.DetectDelimiterCandidates {
		total := 0
		onEveryLine := true
		for li := range lines {
			if counts[li][ci] == 0 {
				onEveryLine = false
				break
			}
			total += counts[li][ci]
		}
		if !onEveryLine {
			continue
		}
		if total > bestCount {
			bestCount = total
			best = ci
		}
	}
	if best < 0 {
		return d.Delimiter, nil
	}
	return d.DetectDelimiterCandidates[best], nil
}

// splitSampleLines breaks sample into physical lines using the configured
// Newline, or \r\n/\r/\n when auto, without interpreting quotes.
func splitSampleLines(sample string, d *Dialect) []string {
	if !d.newlineAuto() {
		return strings.Split(sample, d.Newline)
	}
	normalized := strings.ReplaceAll(sample, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// stripQuotedRegions removes the contents of quoted spans from line so a
// delimiter candidate appearing inside a quoted field is not counted as a
// structural separator.
func stripQuotedRegions(line string, d *Dialect) string {
	if strings.IndexByte(line, d.Quote) < 0 {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == d.Quote {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			b.WriteByte(c)
		}
	}
	return b.String()
}
