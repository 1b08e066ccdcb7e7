// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
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
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log2duck/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// build info is provided via -ldflags
var (
	version   string
	buildDate string
	gitCommit string
)

// ProcessOptions gathers the command line switches
// modifying how the `ingest` action behaves.
type ProcessOptions struct {
	dryRun      bool
	fromScratch bool
}

func help(topic string) {
	if topic == "" {
		fmt.Print("Missing action to help with. Select one of the:\n\tingest")
	}
	fmt.Printf("\n[%s]\n\n", topic)
	switch topic {
	case config.ActionIngest:
		fmt.Println(helpTexts[0])
	default:
		fmt.Println("- no information available -")
	}
	fmt.Println()
}

func setupLog(conf *config.Main) *os.File {
	if conf.LogLevel != "" {
		level, err := zerolog.ParseLevel(conf.LogLevel)
		if err != nil {
			log.Fatal().Msgf("Invalid LogLevel: '%s'", conf.LogLevel)
		}
		zerolog.SetGlobalLevel(level)
	}
	if conf.LogPath != "" {
		logf, err := os.OpenFile(conf.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal().Msgf("Failed to initialize log. File: %s", conf.LogPath)
		}
		log.Logger = log.Output(logf)
		return logf
	}
	return nil
}

func setup(confPath, action string) (*config.Main, *os.File) {
	conf := config.Load(confPath)
	config.Validate(conf, action)
	logf := setupLog(conf)
	return conf, logf
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Do not write rows to the database, print them to stdout instead")
	fromScratch := flag.Bool("from-scratch", false, "Process the whole input even if the database already contains newer rows")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Log2duck - a program for moving web access logs into a DuckDB analytical database\n\nUsage:\n\t%s [options] [action] [config.json]\n\nAvailable actions:\n\t%s\n\nOptions:\n",
			filepath.Base(os.Args[0]), strings.Join([]string{config.ActionIngest, config.ActionVersion, config.ActionHelp}, ", "))
		flag.PrintDefaults()
	}
	flag.Parse()
	var logf *os.File
	action := flag.Arg(0)

	switch action {
	case config.ActionHelp:
		help(flag.Arg(1))
	case config.ActionVersion:
		fmt.Printf("log2duck %s\nbuild date: %s\nlast commit: %s\n", version, buildDate, gitCommit)
	case config.ActionIngest:
		var conf *config.Main
		conf, logf = setup(flag.Arg(1), action)
		runIngestAction(conf, &ProcessOptions{
			dryRun:      *dryRun,
			fromScratch: *fromScratch,
		})
	default:
		fmt.Printf("Unknown action [%s]. Try -h for help\n", flag.Arg(0))
		os.Exit(1)
	}

	if logf != nil {
		logf.Close()
	}
}
