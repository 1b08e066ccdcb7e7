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
	"sync"
	"time"

	"log2duck/agent"
	"log2duck/common"
	"log2duck/config"
	"log2duck/geoip"
	"log2duck/load/accesslog"
	"log2duck/load/batch"
	"log2duck/save"
	"log2duck/save/duckdb"
	"log2duck/save/errlog"
	"log2duck/scripting"
	"log2duck/weblog"
	"log2duck/weblog/combined"

	"github.com/czcorpus/cnc-gokit/datetime"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// reportEachNth specifies how often (in terms of a number of
// stored/skipped lines) we want to log the ingestion progress.
const reportEachNth = 50000

// lineProcessor turns lines provided by the file reader into
// database rows. Lines which cannot be processed are routed to
// the error channel, lines excluded from processing (too old
// entries, blocklisted IP addresses, rows refused by the
// customization script) are just counted.
type lineProcessor struct {
	parser      accesslog.LineParser
	transformer *combined.Transformer
	excludeList weblog.ExcludeIPList
	scriptEnv   *scripting.Env
	threshold   time.Time
	rowsCh      chan<- *combined.BoundRow
	errsCh      chan<- weblog.RowError

	numSkipped  int
	numExcluded int
	numDropped  int
}

func (proc *lineProcessor) ProcItem(line string, lineNum int64) {
	parsed, err := proc.parser.ParseLine(line, lineNum)
	if err != nil {
		proc.errsCh <- weblog.NewRowError(lineNum, line, err)
		return
	}
	rec, err := combined.ImportLine(parsed, lineNum)
	if err != nil {
		proc.errsCh <- weblog.NewRowError(lineNum, line, err)
		return
	}
	if !rec.Time.After(proc.threshold) {
		proc.numSkipped++
		if proc.numSkipped%reportEachNth == 0 {
			log.Info().Msgf("Skipped %d already stored entries", proc.numSkipped)
		}
		return
	}
	if proc.excludeList.Excludes(rec.IP) {
		proc.numExcluded++
		return
	}
	row := proc.transformer.Transform(rec)
	if proc.scriptEnv != nil {
		row, err = proc.scriptEnv.Transform(row)
		if err != nil {
			proc.errsCh <- weblog.NewRowError(lineNum, line, err)
			return
		}
		if row == nil {
			proc.numDropped++
			return
		}
	}
	proc.rowsCh <- &combined.BoundRow{Row: row, LineNumber: lineNum, Line: line}
}

func runIngestAction(conf *config.Main, options *ProcessOptions) {
	startTime := time.Now()
	runID := uuid.New().String()
	log.Info().
		Str("runId", runID).
		Str("srcPath", conf.SrcPath).
		Msg("starting the ingest action")

	rawRules, err := common.LoadSupportedResource(conf.UARegexesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load user agent regexes")
	}
	rules, err := agent.LoadRules(rawRules)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse user agent regexes")
	}
	resolver, err := geoip.Open(conf.GeoIPDbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open the geo IP database")
	}
	defer resolver.Close()

	var scriptEnv *scripting.Env
	if conf.ScriptPath != "" {
		scriptEnv, err = scripting.CreateEnvironment(conf.ScriptPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize the customization script")
		}
		defer scriptEnv.Close()
		log.Info().Str("scriptPath", conf.ScriptPath).Msg("using a row customization script")
	}

	rowsCh := make(chan *combined.BoundRow, conf.PushChunkSize*2)
	errsCh := make(chan weblog.RowError, conf.PushChunkSize)

	var threshold time.Time
	var numWritten, numErrors int
	var errWriter *errlog.Writer
	var dbWG, errWG sync.WaitGroup
	dbWG.Add(1)
	errWG.Add(1)

	if options.dryRun {
		confirms := save.RunWriteConsumer(rowsCh, true)
		go func() {
			defer dbWG.Done()
			for confirm := range confirms {
				numWritten += confirm.Written
				if confirm.RowError != nil {
					errsCh <- *confirm.RowError
				}
			}
		}()
		go func() {
			defer errWG.Done()
			for rerr := range errsCh {
				numErrors++
				log.Debug().Err(rerr).Msg("rejected line")
			}
		}()
		log.Warn().Msg("using dry-run mode, output goes to stdout")

	} else {
		sink, err := duckdb.OpenSink(conf.DBFilePath(), conf.PushChunkSize)
		if err != nil {
			log.Fatal().Err(err).Msgf("failed to open the output database %s", conf.DBFilePath())
		}
		if options.fromScratch {
			log.Info().Msg("processing from scratch, stored timestamps are ignored")

		} else {
			threshold, err = sink.MaxTimestamp()
			if err != nil {
				log.Fatal().Err(err).Msg("failed to find the newest stored row")
			}
			if !threshold.IsZero() {
				log.Info().
					Str("newestRecord", datetime.FormatDatetime(threshold)).
					Msg("skipping entries older than the newest stored row")
			}
		}
		errWriter = errlog.NewWriter(conf.ErrFilePath())
		if err := errWriter.Prepare(); err != nil {
			log.Fatal().Err(err).Msgf("failed to prepare the error file %s", conf.ErrFilePath())
		}
		dbConfirms := duckdb.RunWriteConsumer(sink, rowsCh)
		go func() {
			defer dbWG.Done()
			for confirm := range dbConfirms {
				if confirm.Error != nil {
					log.Error().Err(confirm.Error).Msg("failed to save data to the DuckDB database")
					continue
				}
				if confirm.RowError != nil {
					errsCh <- *confirm.RowError
					continue
				}
				prev := numWritten
				numWritten += confirm.Written
				if numWritten/reportEachNth != prev/reportEachNth {
					log.Info().Msgf("Added %d new rows", numWritten)
				}
			}
		}()
		errConfirms := errlog.RunWriteConsumer(errWriter, errsCh)
		go func() {
			defer errWG.Done()
			for confirm := range errConfirms {
				if confirm.Error != nil {
					log.Error().Err(confirm.Error).Msg("failed to write to the error file")
					continue
				}
				if confirm.RowError != nil {
					numErrors++
				}
			}
		}()
	}

	processor := &lineProcessor{
		transformer: combined.NewTransformer(conf.OriginURL(), agent.NewClassifier(rules), resolver),
		excludeList: conf.ExcludeIPList,
		scriptEnv:   scriptEnv,
		threshold:   threshold,
		rowsCh:      rowsCh,
		errsCh:      errsCh,
	}
	numProcessed, err := batch.ProcessFiles(conf.SrcPath, processor)
	if err != nil {
		log.Error().Err(err).Msg("log reading interrupted")
	}
	close(rowsCh)
	dbWG.Wait()
	close(errsCh)
	errWG.Wait()

	log.Info().
		Str("runId", runID).
		Int64("numProcessed", numProcessed).
		Int("numInserted", numWritten).
		Int("numErrors", numErrors).
		Int("numSkipped", processor.numSkipped).
		Int("numExcluded", processor.numExcluded).
		Int("numDropped", processor.numDropped).
		Float64("procTimeSecs", time.Since(startTime).Round(time.Millisecond).Seconds()).
		Msg("ingestion finished")
	if errWriter != nil && errWriter.Created() {
		log.Warn().Msgf("%d rejected lines are reported in %s", numErrors, conf.ErrFilePath())
	}
}
