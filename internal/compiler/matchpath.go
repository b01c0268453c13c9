package compiler

import "strings"

// MatchPath reports whether relPath (a '/'-separated relative path, no
// leading separator) fully satisfies cp. It is used wherever a pattern
// must be evaluated against a path that is already known — ignore-set
// membership, includeChildMatches checks — rather than driving a
// directory walk.
func MatchPath(cp *CompiledPattern, relPath string) bool {
	switch cp.Classification {
	case Static:
		lit := strings.TrimPrefix(cp.LiteralPath, "/")
		return lit == relPath
	case FastExtension:
		if cp.ExtensionGlobstar {
			return strings.HasSuffix(relPath, cp.Extension)
		}
		return !strings.Contains(relPath, "/") && strings.HasSuffix(relPath, cp.Extension)
	case FastBasename:
		name := relPath
		if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
			name = relPath[i+1:]
		}
		return cp.Segments[0].Match(name, cp.CaseSensitive)
	case Regex:
		if cp.TailRegex != nil {
			return cp.TailRegex.MatchString(relPath)
		}
		if cp.TailPCRE != nil {
			return cp.TailPCRE.MatchString(relPath)
		}
		return false
	default: // Segmented
		return matchSegmented(cp.Segments, relPath, cp.CaseSensitive)
	}
}

func matchSegmented(segments []SegmentMatcher, relPath string, caseSensitive bool) bool {
	parts := strings.Split(relPath, "/")
	return matchSegmentsFrom(segments, 0, parts, 0, caseSensitive)
}

func matchSegmentsFrom(segments []SegmentMatcher, si int, parts []string, pi int, caseSensitive bool) bool {
	if si == len(segments) {
		return pi == len(parts)
	}
	seg := segments[si]
	if seg.IsGlobstar {
		for k := pi; k <= len(parts); k++ {
			if matchSegmentsFrom(segments, si+1, parts, k, caseSensitive) {
				return true
			}
		}
		return false
	}
	if pi >= len(parts) {
		return false
	}
	if !seg.Match(parts[pi], caseSensitive) {
		return false
	}
	return matchSegmentsFrom(segments, si+1, parts, pi+1, caseSensitive)
}
