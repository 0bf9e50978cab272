// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the similarity pipeline.
type Config struct {
	Pipeline       PipelineConfig       `mapstructure:"pipeline"`
	Regularization RegularizationConfig `mapstructure:"regularization"`
}

// PipelineConfig controls filtering and scheduling of the pipeline stages.
type PipelineConfig struct {
	// MinRaters drops items rated by fewer users before pairing.
	MinRaters int `mapstructure:"min_raters" validate:"gte=0"`
	// MaxRaters drops items rated by more users before pairing. Zero means unlimited.
	// Bounding the rater count per item caps the quadratic fan-out of pairing.
	MaxRaters int `mapstructure:"max_raters" validate:"gte=0"`
	// MinIntersection drops pairs with fewer co-raters from the aggregated output.
	MinIntersection int `mapstructure:"min_intersection" validate:"gte=0"`
	// Jobs is the number of parallel workers.
	Jobs int `mapstructure:"jobs" validate:"gte=1"`
}

// RegularizationConfig tunes the shrinkage of raw correlation toward a prior.
type RegularizationConfig struct {
	// PriorCount is the pseudocount strength of the prior.
	PriorCount float32 `mapstructure:"prior_count" validate:"gte=0"`
	// PriorCorrelation is the correlation assumed for unobserved pairs.
	PriorCorrelation float32 `mapstructure:"prior_correlation" validate:"gte=-1,lte=1"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MinRaters:       0,
			MaxRaters:       0,
			MinIntersection: 1,
			Jobs:            runtime.NumCPU(),
		},
		Regularization: RegularizationConfig{
			PriorCount:       10,
			PriorCorrelation: 0,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [pipeline]
	viper.SetDefault("pipeline.min_raters", defaultConfig.Pipeline.MinRaters)
	viper.SetDefault("pipeline.max_raters", defaultConfig.Pipeline.MaxRaters)
	viper.SetDefault("pipeline.min_intersection", defaultConfig.Pipeline.MinIntersection)
	viper.SetDefault("pipeline.jobs", defaultConfig.Pipeline.Jobs)
	// [regularization]
	viper.SetDefault("regularization.prior_count", defaultConfig.Regularization.PriorCount)
	viper.SetDefault("regularization.prior_correlation", defaultConfig.Regularization.PriorCorrelation)
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the configuration.
func (config *Config) Validate() error {
	if err := validator.New().Struct(config); err != nil {
		return errors.Trace(err)
	}
	if config.Pipeline.MaxRaters > 0 && config.Pipeline.MaxRaters < config.Pipeline.MinRaters {
		return errors.Errorf("max_raters (%d) must not be less than min_raters (%d)",
			config.Pipeline.MaxRaters, config.Pipeline.MinRaters)
	}
	return nil
}
