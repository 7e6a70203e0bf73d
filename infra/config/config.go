package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/rs/zerolog/log"
)

const path = "infra/config"

// Load loads the json config file into the given value.
func Load(file string, v interface{}) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not load config from '%s': %w", file, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("could not unmarshal the config from '%s': %w", file, err)
	}
	log.Info().Str("file", file).Msg("loaded config")
	return nil
}

// MustLoad loads the default config for the given key
func MustLoad(key string, v interface{}) {
	if err := Load(fmt.Sprintf("%s/%s.json", path, key), v); err != nil {
		panic(err.Error())
	}
}
