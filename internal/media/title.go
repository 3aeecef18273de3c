// Package media cleans release-style titles such as post names and Drive
// folder names into a name and year suitable for a metadata search.
package media

import (
	"regexp"
	"strings"
)

var (
	// videoRe matches video file extensions.
	videoRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx)$`)

	// yearRangeRe extracts a year or year range; only the first year is kept.
	yearRangeRe = regexp.MustCompile(`\b((19|20)\d{2})(?:[\s\-–—]+(?:19|20)\d{2})?\b`)

	// encodingTagsRe removes codec, resolution and source tags.
	encodingTagsRe = regexp.MustCompile(`(?i)\b(?:HD|HDR|DV|x265|x264|H\.?264|H\.?265|HEVC|AVC|AAC|AC3|DD|DTS|FLAC|MP3|WEB-?DL|WEBRip|BluRay|BDRip|DVDRip|HDTV|480p|720p|1080p|2160p|4K|UHD|SDR|10bit|8bit|PROPER|REPACK|iNTERNAL|LiMiTED|UNRATED|EXTENDED|DiRECTORS?\.?CUT|THEATRICAL|COMPLETE|SEASON|SERIES|MULTI|DUAL|DUBBED|SUBBED|SUB|ESub|Hindi|English|RETAIL|WS|FS|NTSC|PAL|UNCUT|UNCENSORED)\b`)

	// seasonEpisodePatterns mark where season or episode info starts.
	seasonEpisodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bs\d{1,2}e\d{1,3}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}x\d{2,3}\b`),
		regexp.MustCompile(`(?i)\b(?:season|s)[\s\.\-_]*\d{1,2}\b`),
	}

	bracketsRe      = regexp.MustCompile(`\[[^\]]*\]|\{[^}]*\}`)
	emptyBracketsRe = regexp.MustCompile(`\(\s*\)`)
)

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// ParseTitle splits a raw title into a clean name and a year. Video
// extensions, bracketed tags, season and episode markers and encoding tags
// are dropped. The year is empty when none is present.
func ParseTitle(raw string) (name, year string) {
	working := strings.TrimSpace(raw)
	if working == "" {
		return "", ""
	}

	if loc := videoRe.FindStringIndex(working); loc != nil {
		working = working[:loc[0]]
	}
	working = bracketsRe.ReplaceAllString(working, " ")

	if idx := seasonEpisodeIndex(working); idx > 0 {
		working = strings.TrimRight(working[:idx], ".-_ ([")
	}

	return nameAndYear(working)
}

func seasonEpisodeIndex(s string) int {
	earliest := -1
	for _, re := range seasonEpisodePatterns {
		if loc := re.FindStringIndex(s); loc != nil && (earliest == -1 || loc[0] < earliest) {
			earliest = loc[0]
		}
	}
	return earliest
}

// nameAndYear uses the first year that has a name in front of it, so a
// title that is itself a year ("1917 (2019)") keeps its name.
func nameAndYear(s string) (string, string) {
	for _, m := range yearRangeRe.FindAllStringSubmatchIndex(s, -1) {
		if name := cleanName(strings.TrimRight(s[:m[0]], " ([{-_.")); name != "" {
			return name, s[m[2]:m[3]]
		}
	}
	return cleanName(s), ""
}

func cleanName(s string) string {
	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)
	s = encodingTagsRe.ReplaceAllString(s, "")
	s = emptyBracketsRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, "-–—|:( ")
}
