package post

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTagLength = 100

var (
	hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	tagWordRe = regexp.MustCompile(`^[\p{L}\p{N}_]*$`)
)

// ExtractHashtags returns the distinct lowercase tags of caption in order of appearance.
func ExtractHashtags(caption string) []string {
	matches := hashtagRe.FindAllStringSubmatch(caption, -1)
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if utf8.RuneCountInString(tag) > maxTagLength {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeTag turns user input like "#GoLang " into the stored form "golang".
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// IndexableTag reports whether tag only holds characters ExtractHashtags keeps,
// so it can be looked up in the hashtag table.
func IndexableTag(tag string) bool {
	return tagWordRe.MatchString(tag)
}
