package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/gateway/fhesim"
	"github.com/veilvote/veilvote/ledger/memledger"
	"github.com/veilvote/veilvote/lifecycle"
)

var version common.Version = common.MustParseVersion("0.1.0")

var rootCmd = &cobra.Command{
	Use:   "vs",
	Short: "vs is the encrypted-vote lifecycle simulator",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// set logging
		handler, err := common.LogHandler(common.LogFormatter(flagLogFormat.f), FlagLogOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
			os.Exit(1)
		}
		handler = log15.CallerFileHandler(handler)
		handler = log15.LvlFilterHandler(flagLogLevel.lvl, handler)

		if flagQuiet {
			handler = log15.DiscardHandler()
		}

		logs := []log15.Logger{
			log,
			common.Log(),
			memledger.Log(),
			fhesim.Log(),
			lifecycle.Log(),
		}
		for _, l := range logs {
			common.SetLogger(l, flagLogLevel.lvl, handler)
		}

		log.Debug("parsed flags", "flags", printFlags(cmd, flagLogFormat.f))

		if flagSyncTime {
			syncer, err := common.NewTimeSyncer(flagNTPServer, time.Minute)
			if err != nil {
				log.Error("failed to create time syncer", "error", err)
			} else if err := syncer.Start(); err != nil {
				log.Error("failed to start time syncer", "error", err)
			} else {
				common.SetTimeSyncer(syncer)
			}
		}

		if len(flagCPUProfile) > 0 {
			f, err := os.Create(flagCPUProfile)
			if err != nil {
				panic(err)
			}
			pprof.StartCPUProfile(f)

			sigc := make(chan os.Signal, 1)
			signal.Notify(
				sigc,
				syscall.SIGTERM,
				syscall.SIGQUIT,
				syscall.SIGKILL,
			)

			go func() {
				<-sigc
				pprof.StopCPUProfile()
				log.Debug("cpuprofile closed")
				os.Exit(0)
			}()
			log.Debug("cpuprofile enabled")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if len(flagCPUProfile) > 0 {
			pprof.StopCPUProfile()
			log.Debug("cpuprofile closed")
		}
		log.Debug("stopped")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	rootCmd.PersistentFlags().Var(&flagLogLevel, "log-level", "log level: {debug error warn info crit}")
	rootCmd.PersistentFlags().Var(&flagLogFormat, "log-format", "log format: {json terminal}")
	rootCmd.PersistentFlags().StringVar(&FlagLogOut, "log", FlagLogOut, "log output file")
	rootCmd.PersistentFlags().StringVar(&flagCPUProfile, "cpuprofile", flagCPUProfile, "write cpu profile to file")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", flagQuiet, "quiet")
	rootCmd.PersistentFlags().BoolVar(&flagSyncTime, "sync-time", flagSyncTime, "sync time over ntp")
	rootCmd.PersistentFlags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	os.Exit(0)
}
