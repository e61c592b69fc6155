package metadata

import "strings"

// filenamePatterns maps filename prefixes to inferred (source, type)
// pairs. Order is the match priority; prefixes are mutually exclusive so
// ties cannot occur.
var filenamePatterns = []struct {
	prefix string
	source string
	ctype  string
}{
	{"meeting_", "meeting", "minutes"},
	{"interview_", "interview", "transcript"},
	{"memo_", "memo", "note"},
	{"webinar_", "webinar", "summary"},
}

// InferFromFilename derives (source, type) from the bare filename using
// case-insensitive prefix matching. Unrecognized names fall back to the
// defaults. It never fails.
func InferFromFilename(filename string) (source, ctype string) {
	name := strings.ToLower(baseName(filename))
	for _, p := range filenamePatterns {
		if strings.HasPrefix(name, p.prefix) {
			return p.source, p.ctype
		}
	}
	return DefaultSource, DefaultType
}

// baseName strips any directory prefix, handling both path separators so
// that filenames recorded on other platforms still match.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
