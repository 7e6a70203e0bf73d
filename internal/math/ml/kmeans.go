package ml

import (
	"fmt"
	"strings"

	"github.com/cdipaolo/goml/cluster"
	"github.com/rs/zerolog/log"
)

// Purity clusters the embeddings with k-means into as many groups as there are classes,
// and returns the fraction of points that share the dominant class of their cluster.
// A value close to 1 means the classes are well separated in the latent space.
func Purity(embeddings [][]float64, classes []int, iterations int) (float64, error) {
	if len(embeddings) != len(classes) {
		return 0, fmt.Errorf("%d embeddings for %d classes: %w", len(embeddings), len(classes), ErrConfig)
	}
	if len(embeddings) < Classes {
		return 0, fmt.Errorf("need at least %d embeddings, got %d: %w", Classes, len(embeddings), ErrConfig)
	}
	model := cluster.NewKMeans(Classes, iterations, embeddings)
	// goml reports its progress on stdout by default
	model.Output = debugWriter{}
	if err := model.Learn(); err != nil {
		log.Error().
			Err(err).
			Int("samples", len(embeddings)).
			Msg("error during training on k-means")
		return 0, fmt.Errorf("could not cluster embeddings: %w", err)
	}
	guesses := model.Guesses()
	if len(guesses) != len(classes) {
		return 0, fmt.Errorf("could not align guesses with classes [ %d | %d ]", len(guesses), len(classes))
	}

	counts := make(map[int]map[int]int)
	for i, g := range guesses {
		if _, ok := counts[g]; !ok {
			counts[g] = make(map[int]int)
		}
		counts[g][classes[i]]++
	}

	var dominant int
	for _, cc := range counts {
		var max int
		for _, c := range cc {
			if c > max {
				max = c
			}
		}
		dominant += max
	}
	return float64(dominant) / float64(len(classes)), nil
}

// debugWriter forwards library output to the debug log.
type debugWriter struct{}

func (debugWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		log.Debug().Str("source", "goml").Msg(msg)
	}
	return len(p), nil
}
