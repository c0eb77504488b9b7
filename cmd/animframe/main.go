package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/pkg/runtime"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/avanim"
	"github.com/xaionaro-go/avanim/backend/libav"
	"github.com/xaionaro-go/avanim/seekindex"
	"github.com/xaionaro-go/avanim/types"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/typing"
	"gopkg.in/yaml.v3"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [options] <video> <output-directory>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	configPath := pflag.String("config", "", "path to a YAML config")
	indexPath := pflag.String("index", "", "path to a YAML seek index (used with --timecode)")
	timecode := avanim.TimecodeNone
	pflag.Var(&timecode, "timecode", "the timecode of the seek index: none, record_run, free_run, interpolated_record_run, record_run_no_gaps")
	streamSelector := pflag.Int("stream", 0, "the index of the video stream (counting video streams only)")
	frames := pflag.IntSlice("frames", nil, "frames to extract (all frames if empty)")
	preview := pflag.Bool("preview", false, "extract the preview frame only")
	deinterlace := pflag.Bool("deinterlace", false, "deinterlace the frames")
	frameRate := types.Rational{}
	pflag.Var(&frameRate, "frame-rate", "override the frame rate (e.g. 30000/1001)")
	forceGenericSeek := pflag.Bool("force-generic-seek", false, "do not trust the seeking of the container")
	printStats := pflag.Bool("print-stats", false, "print the statistics in the end")
	pflag.Parse()
	if len(pflag.Args()) != 2 {
		pflag.Usage()
		os.Exit(1)
	}

	runtime.DefaultCallerPCFilter = observability.CallerPCFilter(runtime.DefaultCallerPCFilter)
	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	libav.SetupLogging(l)

	cfg := avanim.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			l.Fatal(err)
		}
		cfg, err = avanim.LoadConfig(f)
		f.Close()
		if err != nil {
			l.Fatal(err)
		}
	}
	if *deinterlace {
		cfg.Deinterlace = true
	}
	if !frameRate.IsZero() {
		cfg.FrameRateOverride = typing.Opt(frameRate)
	}
	cfg.Opener = libav.NewOpener(libav.Config{ForceGenericSeek: *forceGenericSeek})

	if *indexPath != "" {
		if timecode == avanim.TimecodeNone {
			l.Fatal("--index requires --timecode")
		}
		f, err := os.Open(*indexPath)
		if err != nil {
			l.Fatal(err)
		}
		table, err := seekindex.LoadTable(f)
		f.Close()
		if err != nil {
			l.Fatal(err)
		}
		cfg.IndexProvider = avanim.StaticIndexes{timecode: table}
	}

	videoPath := pflag.Arg(0)
	outDir := pflag.Arg(1)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		l.Fatal(err)
	}

	anim := avanim.Open(ctx, videoPath, *streamSelector, cfg)
	defer func() {
		if err := anim.Close(ctx); err != nil {
			l.Error(err)
		}
	}()
	if err := anim.Probe(ctx); err != nil {
		l.Fatal(err)
	}
	l.Debugf("metadata: %v", anim.Metadata(ctx))

	var written uint64
	save := func(img *avanim.Image) {
		outPath := filepath.Join(outDir, fmt.Sprintf("%s.png", filepath.Base(img.Name)))
		if err := imgio.Save(outPath, img.ToRGBA(), imgio.PNGEncoder()); err != nil {
			l.Fatal(err)
		}
		if fi, err := os.Stat(outPath); err == nil {
			written += uint64(fi.Size())
		}
		fmt.Println(outPath)
	}

	switch {
	case *preview:
		img, err := anim.PreviewFrame(ctx)
		if err != nil {
			l.Fatal(err)
		}
		if err := yaml.NewEncoder(os.Stdout).Encode(img.Metadata); err != nil {
			l.Fatal(err)
		}
		save(img)
	default:
		positions := *frames
		if len(positions) == 0 {
			for pos := 0; pos < anim.Duration(ctx, timecode); pos++ {
				positions = append(positions, pos)
			}
		}
		var img avanim.Image
		for _, pos := range positions {
			if err := anim.FetchInto(ctx, pos, timecode, &img); err != nil {
				l.Errorf("unable to fetch frame %d: %v", pos, err)
				continue
			}
			save(&img)
		}
	}
	l.Infof("written %s", humanize.Bytes(written))

	if *printStats {
		if err := yaml.NewEncoder(os.Stdout).Encode(anim.Statistics.Snapshot()); err != nil {
			l.Fatal(err)
		}
	}
}
