package textproc

import (
	"unicode"

	"github.com/covalentlabs/webquill/internal/domain"
)

// ChunkConfig controls the sliding-window chunker.
type ChunkConfig struct {
	// Size is the window length in runes.
	Size int
	// Overlap is how many runes adjacent chunks share.
	Overlap int
	// LookBack bounds how far the chunker searches backwards for a
	// whitespace boundary before hard-cutting at Size.
	LookBack int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:     500,
		Overlap:  50,
		LookBack: 50,
	}
}

// Validate rejects configurations under which chunking cannot progress.
func (cfg ChunkConfig) Validate() error {
	if cfg.Size <= 0 {
		return domain.ErrInvalidChunkSize
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return domain.ErrOverlapTooLarge
	}
	return nil
}

// Chunk slides a window of cfg.Size runes across text, advancing by
// cfg.Size-cfg.Overlap each step so adjacent chunks share exactly
// cfg.Overlap runes. Cuts prefer a whitespace boundary within cfg.LookBack
// runes of the window end; the final chunk may be shorter than cfg.Size.
// Concatenating each chunk's non-overlapping tail reconstructs the input.
func Chunk(text string, cfg ChunkConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	if len(runes) <= cfg.Size {
		return []string{text}, nil
	}

	chunks := make([]string, 0, len(runes)/(cfg.Size-cfg.Overlap)+1)
	start := 0
	for start < len(runes) {
		end := start + cfg.Size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// The cut must stay past start+Overlap or the next window
		// would not advance.
		minCut := end - cfg.LookBack
		if floor := start + cfg.Overlap + 1; minCut < floor {
			minCut = floor
		}
		cut := end
		for i := end; i > minCut; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		chunks = append(chunks, string(runes[start:cut]))
		start = cut - cfg.Overlap
	}

	return chunks, nil
}
