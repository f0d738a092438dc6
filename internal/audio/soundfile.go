package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SoundfileName formats the sequential media-folder filename for a clip.
func SoundfileName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s-%04d.%s", prefix, index, ext)
}

// NextSoundfileIndex scans the media directory for files named
// "{prefix}-{number}.{ext}" and returns one past the largest numeric suffix
// found, or 1 when none exist. Files under other prefixes are ignored, so
// multiple decks can share a media folder.
func NextSoundfileIndex(mediaDir, prefix, ext string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(mediaDir, prefix+"-*"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan media directory: %w", err)
	}

	suffix := regexp.MustCompile(`(?i)-(\d+)\.` + regexp.QuoteMeta(ext) + `$`)

	index := 1
	for _, match := range matches {
		base := filepath.Base(match)
		if !strings.HasPrefix(base, prefix+"-") {
			continue
		}
		m := suffix.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if i >= index {
			index = i + 1
		}
	}
	return index, nil
}

// WriteSoundfile writes audio bytes into the media directory under the
// sequential name and returns the bare filename for the note's audio field.
func WriteSoundfile(mediaDir, prefix string, index int, ext string, data []byte) (string, error) {
	name := SoundfileName(prefix, index, ext)
	if err := os.WriteFile(filepath.Join(mediaDir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write soundfile: %w", err)
	}
	return name, nil
}
