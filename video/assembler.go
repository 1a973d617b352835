package video

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Assembler concatenates rendered scene clips into the final video and
// optionally burns captions onto a second copy.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Concat joins the clips in order into outputPath using the concat
// demuxer, re-encoding nothing. Clip order is narrative order.
func (a *Assembler) Concat(clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to assemble")
	}

	listPath := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	var list strings.Builder
	for _, clip := range clipPaths {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return fmt.Errorf("resolving clip path %s: %w", clip, err)
		}
		fmt.Fprintf(&list, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("writing concat list: %w", err)
	}
	defer os.Remove(listPath)

	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		log.Printf("ffmpeg concat output: %s", string(output))
		return fmt.Errorf("concatenating clips: %w", err)
	}
	return nil
}

// BurnCaptions renders the caption track onto videoPath, writing the
// result to outputPath. Captioning is cosmetic; the caller treats a
// failure here as non-fatal.
func (a *Assembler) BurnCaptions(videoPath, assPath, outputPath string) error {
	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("ass=%s", assPath),
		"-c:a", "copy",
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		log.Printf("ffmpeg captions output: %s", string(output))
		return fmt.Errorf("burning captions: %w", err)
	}
	return nil
}
