package main

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/gateway/fhesim"
	"github.com/veilvote/veilvote/ledger/memledger"
	"github.com/veilvote/veilvote/lifecycle"
	"github.com/veilvote/veilvote/vote"
)

var config SimulatorConfig

var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "run the vote lifecycle simulator",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config = defaultSimulatorConfig()
		if len(args) > 0 {
			log.Debug("trying to load config", "file", args[0])
			b, err := ioutil.ReadFile(args[0])
			if err != nil {
				cmd.Println("Error:", err.Error())
				os.Exit(1)
			}

			c, err := newSimulatorConfigFromBytes(b)
			if err != nil {
				cmd.Println("Error:", err.Error())
				os.Exit(1)
			}

			config = c
		}

		log.Debug("config loaded", "config", config)

		if err := run(); err != nil {
			printError(cmd, err)
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().DurationVar(&flagExitAfter, "exit-after", 0, "exit after; 0 waits for the final status revert")

	rootCmd.AddCommand(runCmd)
}

func run() error {
	ledger, err := memledger.New()
	if err != nil {
		return err
	}
	defer func() {
		_ = ledger.Close()
	}()

	engine := fhesim.New([]byte(config.EngineKey), ledger.Ciphertext)
	ledger.SetProofCheck(engine.CheckProof)

	signer := vote.Address(config.Signer)
	ct, err := lifecycle.NewController(
		config.Policy(),
		ledger,
		ledger.SignerWriter(signer),
		engine,
		engine,
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = ct.Close()
	}()

	// mirror every status change as a log line, the way a UI would
	// render the shared toast
	statusDaemon := common.NewReaderDaemon(true, func(v interface{}) error {
		status, ok := v.(lifecycle.Status)
		if !ok {
			return nil
		}

		log.Info("status changed", "phase", status.Phase(), "message", status.Message())

		return nil
	})
	if err := statusDaemon.Start(); err != nil {
		return err
	}

	watch := ct.WatchStatus()
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)

		for status := range watch {
			statusDaemon.Write(status)
		}
	}()

	if available, err := ct.CheckAvailability(); err != nil {
		return err
	} else if !available {
		log.Error("encryption system unavailable")
		return nil
	}

	var created []lifecycle.CreateResult
	for _, vc := range config.Votes {
		result, err := ct.CreateVote(vc.Title, vc.Value, vc.Description, vc.Category)
		if err != nil {
			log.Error("create failed", "title", vc.Title, "error", err)
			continue
		}

		created = append(created, result)
		log.Info("vote created", "id", result.ID, "tx", result.Tx, "title", vc.Title)

		// ids derive from wall-clock milliseconds; keep them distinct
		<-time.After(config.Interval)
	}

	if config.Reveal {
		for _, result := range created {
			revealed, err := ct.RevealVote(result.ID)
			if err != nil {
				log.Error("reveal failed", "id", result.ID, "error", err)
				continue
			}

			log.Info("vote revealed",
				"id", revealed.ID,
				"value", revealed.Value,
				"revealed", revealed.Revealed,
			)

			<-time.After(config.Interval)
		}
	}

	stats := ct.Stats()
	log.Info("simulation finished",
		"total", stats.TotalVotes,
		"verified", stats.VerifiedVotes,
		"active", stats.ActiveProposals,
		"mine", stats.UserVotes,
	)

	for _, r := range ct.History() {
		log.Info("history",
			"id", r.ID(),
			"title", r.Title(),
			"verified", r.IsVerified(),
			"value", r.RevealedValue(),
			"created_at", r.CreatedAt(),
		)
	}

	if flagExitAfter > 0 {
		<-time.After(flagExitAfter)
	} else {
		// let the last success status revert to idle before leaving
		<-time.After(ct.Policy().SuccessStatusWindow + time.Millisecond*100)
	}

	_ = ct.Close()
	<-watchDone
	_ = statusDaemon.Stop()

	return nil
}
