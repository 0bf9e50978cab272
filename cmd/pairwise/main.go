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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorse-io/pairwise/base/log"
	"github.com/gorse-io/pairwise/config"
	"github.com/gorse-io/pairwise/pair"
	"github.com/gorse-io/pairwise/sink"
	"github.com/gorse-io/pairwise/source"
)

// Default build-time variable.
// These values are overridden via ldflags
var (
	Version   = "unknown-version"
	GitCommit = "unknown-commit"
	BuildTime = "unknown-buildtime"
)

func buildInfo() string {
	var info string
	info += fmt.Sprintln("Version:\t", Version)
	info += fmt.Sprintln("Go version:\t", runtime.Version())
	info += fmt.Sprintln("Git commit:\t", GitCommit)
	info += fmt.Sprintln("Built:\t\t", BuildTime)
	info += fmt.Sprintf("OS/Arch:\t %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return info
}

var rootCommand = &cobra.Command{
	Use:   "pairwise [input] [output]",
	Short: "Compute pairwise item similarities from a sparse user-item rating dataset.",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(buildInfo())
			return
		}
		if len(args) != 2 {
			_ = cmd.Usage()
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		conf := config.GetDefaultConfig()
		if configPath, _ := cmd.PersistentFlags().GetString("config"); configPath != "" {
			var err error
			conf, err = config.LoadConfig(configPath)
			if err != nil {
				log.Logger().Fatal("failed to load config", zap.Error(err))
			}
			log.Logger().Info("load config", zap.String("config", configPath))
		}

		// create source
		src, err := openSource(cmd, args[0])
		if err != nil {
			log.Logger().Fatal("failed to open source", zap.Error(err))
		}

		// run pipeline
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		results, err := pair.Run(ctx, src, sink.NewTSV(args[1]), conf)
		if err != nil {
			log.Logger().Fatal("failed to run pipeline", zap.Error(err))
		}

		// show the strongest pairs
		if top, _ := cmd.PersistentFlags().GetInt("top"); top > 0 {
			printTop(results, top)
		}
	},
}

func init() {
	rootCommand.PersistentFlags().BoolP("version", "v", false, "pairwise version")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().String("format", "tsv", "input format (tsv, stars, checkins or builtin)")
	rootCommand.PersistentFlags().String("sep", "\t", "field separator of the tsv format")
	rootCommand.PersistentFlags().Bool("header", false, "skip the first line of the tsv format")
	rootCommand.PersistentFlags().String("star-pattern", source.DefaultStarPattern,
		"pattern extracting an item and a star rating from a post")
	rootCommand.PersistentFlags().String("checkin-pattern", source.DefaultCheckInPattern,
		"pattern extracting an item from a check-in post")
	rootCommand.PersistentFlags().Int("top", 10, "number of the strongest pairs to print (0 to disable)")
	log.AddFlags(rootCommand.PersistentFlags())
}

func openSource(cmd *cobra.Command, input string) (source.Source, error) {
	format, _ := cmd.PersistentFlags().GetString("format")
	switch format {
	case "tsv":
		sep, _ := cmd.PersistentFlags().GetString("sep")
		hasHeader, _ := cmd.PersistentFlags().GetBool("header")
		return source.NewTSV(input, sep, hasHeader), nil
	case "stars":
		pattern, _ := cmd.PersistentFlags().GetString("star-pattern")
		return source.NewStarPosts(input, pattern)
	case "checkins":
		pattern, _ := cmd.PersistentFlags().GetString("checkin-pattern")
		return source.NewCheckIns(input, pattern)
	case "builtin":
		return source.NewBuiltIn(input), nil
	default:
		return nil, fmt.Errorf("unknown input format %s", format)
	}
}

func printTop(results []pair.SimilarityResult, n int) {
	sorted := make([]pair.SimilarityResult, 0, len(results))
	for _, result := range results {
		if !math32.IsNaN(result.RegularizedCorrelation) {
			sorted = append(sorted, result)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RegularizedCorrelation > sorted[j].RegularizedCorrelation
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Item", "Item2", "Correlation", "Regularized", "Cosine", "Jaccard", "Size")
	for _, result := range sorted {
		_ = table.Append([]string{
			result.ItemA,
			result.ItemB,
			formatScore(result.Correlation),
			formatScore(result.RegularizedCorrelation),
			formatScore(result.CosineSimilarity),
			formatScore(result.JaccardSimilarity),
			strconv.Itoa(result.Size),
		})
	}
	_ = table.Render()
}

func formatScore(score float32) string {
	return strconv.FormatFloat(float64(score), 'f', 4, 32)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
