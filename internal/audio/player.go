package audio

import (
	"bytes"
	"fmt"
	"os/exec"
)

// playerArgs launches mpv reading audio from stdin.
var playerArgs = []string{"mpv", "-", "--really-quiet"}

// Play pipes audio bytes to the local mpv player and waits for playback to
// finish. Used when the output destination is "-".
func Play(data []byte) error {
	cmd := exec.Command(playerArgs[0], playerArgs[1:]...)
	cmd.Stdin = bytes.NewReader(data)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("player failed: %v: %s", err, stderr.String())
		}
		return fmt.Errorf("player failed: %w", err)
	}
	return nil
}
