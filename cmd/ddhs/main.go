package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/drakos74/ddhs/infra/config"
	"github.com/drakos74/ddhs/internal/evaluate"
	"github.com/drakos74/ddhs/internal/metrics"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/drakos74/ddhs/internal/sample"
	"github.com/drakos74/ddhs/internal/storage"
	"github.com/drakos74/ddhs/internal/storage/file"
	jsonstore "github.com/drakos74/ddhs/internal/storage/file/json"
	"github.com/drakos74/ddhs/internal/synth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func main() {
	var (
		input    = flag.String("input", "", "csv file with the features and the label as last column")
		header   = flag.Bool("header", true, "the csv file starts with a header line")
		output   = flag.String("output", "rebalanced.csv", "csv file for the rebalanced dataset")
		cfgFile  = flag.String("config", "", "json config file, defaults apply if empty")
		reports  = flag.String("reports", "", "directory to store the run reports in, nothing is stored if empty")
		holdout  = flag.Float64("evaluate", 0, "share of every class held out to evaluate the rebalancing, 0 disables the evaluation")
		addr     = flag.String("metrics", "", "address to expose the prometheus metrics on, e.g. :6090")
		debug    = flag.Bool("debug", false, "enable debug logging")
		large    = flag.Float64("large", synth.DefaultLargePercent, "density band width for the majority class")
		small    = flag.Float64("small", synth.DefaultSmallPercent, "density band width for the minority class")
		lr       = flag.Float64("lr", synth.DefaultLearningRate, "learning rate")
		epochs   = flag.Int("epochs", synth.DefaultEpochs, "number of training epochs")
		ratio    = flag.Float64("ratio", synth.DefaultRatio, "synthetic samples relative to the minority size")
		seed     = flag.Uint64("seed", synth.DefaultSeed, "random seed")
		space    = flag.String("space", string(synth.LatentSpace), "output space, latent or feature")
		proposal = flag.String("proposal", string(sample.BallProposal), "latent proposal distribution, ball or gaussian")
		maxDraws = flag.Int("max-draws", sample.DefaultMaxDraws, "maximum number of latent proposals")
		ce       = flag.Bool("cross-entropy", true, "add the cross entropy of the reconstruction to the training loss")
	)
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <data.csv> [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := synth.DefaultConfig()
	if *cfgFile != "" {
		if err := config.Load(*cfgFile, &cfg); err != nil {
			log.Fatal().Err(err).Msg("could not load config")
		}
	}
	// explicit flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "large":
			cfg.LargePercent = *large
		case "small":
			cfg.SmallPercent = *small
		case "lr":
			cfg.LearningRate = *lr
		case "epochs":
			cfg.Epochs = *epochs
		case "ratio":
			cfg.Ratio = *ratio
		case "seed":
			cfg.Seed = *seed
		case "space":
			cfg.Space = synth.Space(*space)
		case "proposal":
			cfg.Sampler.Proposal = sample.Proposal(*proposal)
		case "max-draws":
			cfg.Sampler.MaxDraws = *maxDraws
		case "cross-entropy":
			cfg.CrossEntropy = *ce
		}
	})

	if *addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*addr, mux); err != nil {
				log.Error().Err(err).Str("addr", *addr).Msg("could not serve metrics")
			}
		}()
	}

	shard := storage.VoidShard()
	if *reports != "" {
		shard = jsonstore.BlobShard(*reports, storage.ReportsDir, true)
	}

	dataset, err := file.LoadCSV(*input, *header)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load dataset")
	}

	train, test := dataset, model.Dataset{}
	if *holdout > 0 {
		train, test = evaluate.Split(dataset, *holdout, rand.New(rand.NewSource(cfg.Seed)))
	}

	resampler, err := synth.New(cfg, synth.WithStorage(shard))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	fitted, err := resampler.Fit(train.X, train.Y)
	if err != nil {
		log.Fatal().Err(err).Msg("could not fit")
	}
	result, err := fitted.Generate()
	if err != nil {
		log.Fatal().Err(err).Msg("could not generate")
	}
	for _, w := range result.Report.Warnings {
		log.Warn().Str("run", result.Report.Run).Msg(w.String())
	}

	result.Dataset.Target = dataset.Target
	if err := file.SaveCSV(*output, result.Dataset); err != nil {
		log.Fatal().Err(err).Msg("could not save dataset")
	}

	if *holdout > 0 {
		var enc evaluate.Encoder
		if cfg.Space == synth.LatentSpace {
			enc = fitted
		}
		comparisons := make([]evaluate.Comparison, 0)
		for name, factory := range evaluate.Factories() {
			comparison, err := evaluate.Compare(name, factory, train, result.Dataset, test, enc)
			if err != nil {
				log.Error().Err(err).Str("classifier", name).Msg("could not evaluate")
				continue
			}
			comparisons = append(comparisons, comparison)
		}
		if err := fitted.Store("evaluation", comparisons); err != nil {
			log.Error().Err(err).Msg("could not store evaluation")
		}
		b, err := json.MarshalIndent(comparisons, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("could not encode evaluation")
		}
		fmt.Println(string(b))
	}
}
