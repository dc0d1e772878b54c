package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SoCloseSociety/PinterestBulkPostBot/internal/poster"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/auth"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/batch"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/browser"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/checkpoint"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/config"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/metadata"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/ratelimit"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/report"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/ui"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/ui/tui"
)

var (
	// Post command flags
	csvPath      string
	imagesFolder string
	boardName    string
	defaultTitle string
	defaultDesc  string
	defaultLink  string
	headless     bool
	pinDelay     float64
	loginWait    int
	accountName  string
	saveSession  bool
	pinsPerHour  int
	resumeBatch  bool
	forceRestart bool
	reportPath   string
	useTUI       bool
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a folder of images to Pinterest",
	Long: `Post every image in a folder to Pinterest as individual pins.

Pin metadata comes from a CSV file with columns filename, title, description
and optional link and board columns. Without a CSV you are prompted once for
default values that apply to every pin.

Login happens in the browser window. A stored session cookie (see
'pinpost auth login') skips the interactive login entirely.`,
	Example: `  # Post with interactive defaults
  pinpost post --images ./my_pins --board "Travel Ideas"

  # Post with per-image metadata
  pinpost post --images ./my_pins --csv pins.csv

  # Run headless with a stored session and resume a stopped batch
  pinpost post --headless --account myaccount --resume

  # Watch the batch in the interactive terminal UI
  pinpost post --csv pins.csv --tui`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := runPost(cmd); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVar(&csvPath, "csv", "", "path to CSV file with per-image metadata")
	postCmd.Flags().StringVarP(&imagesFolder, "images", "i", "", "folder containing images to post")
	postCmd.Flags().StringVarP(&boardName, "board", "b", "", "board to post pins to")
	postCmd.Flags().StringVar(&defaultTitle, "title", "", "default pin title when the CSV has none")
	postCmd.Flags().StringVar(&defaultDesc, "description", "", "default pin description when the CSV has none")
	postCmd.Flags().StringVar(&defaultLink, "link", "", "default destination link when the CSV has none")
	postCmd.Flags().BoolVar(&headless, "headless", false, "run the browser without a window")
	postCmd.Flags().Float64Var(&pinDelay, "delay", 2, "delay between pins in seconds")
	postCmd.Flags().IntVar(&loginWait, "login-wait", 60, "seconds to wait for interactive login")
	postCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored session")
	postCmd.Flags().BoolVar(&saveSession, "save-session", false, "store the session cookie after a successful login")
	postCmd.Flags().IntVar(&pinsPerHour, "pins-per-hour", 0, "cap on pins posted per hour (0 = no cap)")
	postCmd.Flags().BoolVar(&resumeBatch, "resume", false, "resume from the last checkpoint for this folder")
	postCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard any existing checkpoint and start over")
	postCmd.Flags().StringVar(&reportPath, "report", "", "write a JSON batch report to this path")
	postCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runPost(cmd *cobra.Command) int {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if imagesFolder != "" {
		flags["images"] = imagesFolder
	}
	if boardName != "" {
		flags["board"] = boardName
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if cmd.Flags().Changed("delay") {
		flags["delay"] = pinDelay
	}
	if cmd.Flags().Changed("login-wait") {
		flags["login-wait"] = loginWait
	}
	if cmd.Flags().Changed("pins-per-hour") {
		flags["pins-per-hour"] = pinsPerHour
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return 1
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()
	log.WithField("version", version).Info("PinPost Bot starting")

	// Discover images and load metadata before any browser work
	images, err := metadata.DiscoverImages(cfg.ImagesFolder)
	if err != nil {
		ui.PrintError("Failed to read images folder", err.Error())
		return 1
	}
	ui.PrintInfo("Images found", fmt.Sprintf("%d in %s", len(images), cfg.ImagesFolder))

	records, err := metadata.LoadCSV(csvPath)
	if err != nil {
		ui.PrintError("Failed to read CSV file", err.Error())
		return 1
	}
	if csvPath != "" && len(records) > 0 {
		ui.PrintInfo("CSV metadata", fmt.Sprintf("%d rows from %s", len(records), csvPath))
	}

	defaults := collectDefaults(cfg, len(records) > 0)

	resolution := metadata.Resolve(defaults, images, records)
	for _, warning := range resolution.Warnings {
		log.Warn(warning)
		ui.PrintWarning(warning)
	}

	if len(resolution.Jobs) == 0 {
		// Nothing postable. Still report the skips.
		result := models.NewBatchResult()
		for _, o := range resolution.Skipped {
			result.Record(o)
		}
		result.Finish()
		ui.PrintSummary(result)
		writeReport(result)
		return 0
	}

	// Checkpoint setup
	ckptManager, state := prepareCheckpoint(cfg, log, len(resolution.Jobs))

	// Cancel the batch cleanly on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the browser
	log.Info("Starting Chrome browser")
	session, err := browser.NewSession(cfg, log)
	if err != nil {
		ui.PrintError("Failed to start browser", err.Error())
		return 1
	}
	defer session.Close()

	controller := browser.NewController(session, log)

	if err := login(ctx, cfg, session, controller); err != nil {
		log.WithError(err).Error("Login failed")
		ui.PrintError("Login failed", err.Error())
		return 1
	}

	// Build the batch
	pinPoster := poster.New(session, controller, cfg.Wait, log)

	var limiter ratelimit.Limiter
	if cfg.RateLimit.PinsPerHour > 0 {
		limiter = ratelimit.NewPinsPerHour(cfg.RateLimit.PinsPerHour)
		ui.PrintInfo("Rate limit", fmt.Sprintf("%d pins/hour", cfg.RateLimit.PinsPerHour))
	}

	var result *models.BatchResult
	var runErr error

	if useTUI {
		result, runErr = runWithTUI(ctx, cfg, pinPoster, limiter, ckptManager, state, resolution)
	} else {
		ui.PrintInfo("Posting", fmt.Sprintf("%d pin(s)", len(resolution.Jobs)))
		fmt.Println()

		tracker := ui.NewBatchTracker(len(resolution.Jobs) + len(resolution.Skipped))
		runner := batch.NewRunner(pinPoster, batch.Options{
			Delay:   cfg.PinDelay(),
			Limiter: limiter,
			Logger:  log,
			OnOutcome: func(completed, total int, outcome models.Outcome) {
				tracker.Record()
				tracker.PrintOutcome(outcome)
			},
			Checkpoint: ckptManager,
			State:      state,
		})
		result, runErr = runner.Run(ctx, resolution.Jobs, resolution.Skipped...)
	}

	ui.PrintSummary(result)
	writeReport(result)
	notifyCompletion(result, runErr)

	if runErr != nil {
		log.WithError(runErr).Error("Batch aborted")
		return 1
	}

	// The batch ran to completion, so the checkpoint has served its purpose.
	if ckptManager != nil {
		if err := ckptManager.Delete(); err != nil {
			log.WithError(err).Warn("Could not remove checkpoint file")
		}
	}

	log.Info("Batch completed")
	return 0
}

// collectDefaults gathers default pin metadata, prompting interactively the
// way a first run without a CSV expects.
func collectDefaults(cfg *config.Config, haveCSV bool) metadata.Defaults {
	defaults := metadata.Defaults{
		Title:       defaultTitle,
		Description: defaultDesc,
		Link:        defaultLink,
		Board:       cfg.BoardName,
	}

	interactive := !ui.IsQuietMode() && !useTUI
	haveFlags := defaultTitle != "" || defaultDesc != "" || defaultLink != ""

	if !haveCSV && !haveFlags && interactive {
		fmt.Println("  Enter the default metadata for your pins:")
		fmt.Println("  (Leave blank to skip a field)")
		fmt.Println()
		defaults.Title = ui.Prompt(os.Stdin, "Title", "")
		defaults.Description = ui.Prompt(os.Stdin, "Description", "")
		defaults.Link = ui.Prompt(os.Stdin, "Link", "")
		fmt.Println()
	}

	if defaults.Board == "" && interactive {
		defaults.Board = ui.Prompt(os.Stdin, "Board name", "")
		fmt.Println()
	}

	return defaults
}

// prepareCheckpoint wires up resume state. Checkpoint trouble is never fatal,
// the batch just runs without one.
func prepareCheckpoint(cfg *config.Config, log logger.Logger, totalJobs int) (*checkpoint.Manager, *checkpoint.Checkpoint) {
	manager, err := checkpoint.NewManager(cfg.ImagesFolder)
	if err != nil {
		log.WithError(err).Warn("Checkpointing disabled")
		return nil, nil
	}

	if forceRestart {
		if err := manager.Delete(); err != nil {
			log.WithError(err).Warn("Could not remove old checkpoint")
		}
	}

	var state *checkpoint.Checkpoint
	if resumeBatch && !forceRestart {
		state, err = manager.Load()
		if err != nil {
			log.WithError(err).Warn("Could not load checkpoint, starting fresh")
		}
		if state != nil {
			ui.PrintInfo("Resuming", fmt.Sprintf("%d pin(s) already posted", state.TotalPosted))
		}
	}

	if state == nil {
		state, err = manager.Create(cfg.ImagesFolder, totalJobs)
		if err != nil {
			log.WithError(err).Warn("Checkpointing disabled")
			return nil, nil
		}
	}

	return manager, state
}

// login restores a stored session cookie when one exists, otherwise waits for
// the user to log in through the browser window.
func login(ctx context.Context, cfg *config.Config, session *browser.Session, controller *browser.Controller) error {
	log := logger.GetLogger()
	poll := cfg.Wait.PollInterval()

	credManager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Warn("Credential storage unavailable")
		credManager = nil
	}

	var account *auth.Account
	if credManager != nil {
		if accountName != "" {
			account, err = credManager.Retrieve(accountName)
			if err != nil {
				return fmt.Errorf("stored session %q not found", accountName)
			}
		} else {
			account, _ = credManager.RetrieveDefault()
		}
	}

	if account != nil {
		if err := session.SetSessionCookie(ctx, account.SessionCookie); err != nil {
			log.WithError(err).Warn("Could not restore session cookie")
		} else if ok, _ := controller.IsAuthenticated(ctx, poll); ok {
			log.WithField("account", account.Username).Info("Using stored session")
			ui.PrintInfo("Using stored session", account.Username)
			return nil
		} else {
			ui.PrintWarning("Stored session is no longer valid")
		}
	}

	fmt.Println()
	fmt.Println("  Please log in to your Pinterest account in the browser window.")
	fmt.Printf("  You have %d seconds to complete login.\n", cfg.LoginWaitSeconds)
	fmt.Println()

	if err := controller.WaitForLogin(ctx, cfg.LoginWait(), time.Second); err != nil {
		return err
	}

	if saveSession && credManager != nil {
		cookie, err := session.ReadSessionCookie(ctx)
		if err != nil || cookie == "" {
			log.WithError(err).Warn("Could not read session cookie to store")
			return nil
		}
		name := accountName
		if name == "" {
			name = "default"
		}
		if err := credManager.Store(&auth.Account{Username: name, SessionCookie: cookie}); err != nil {
			log.WithError(err).Warn("Could not store session cookie")
		} else {
			ui.PrintSuccess("Session stored for future runs: " + name)
		}
	}

	return nil
}

// runWithTUI runs the batch behind the interactive terminal UI.
func runWithTUI(ctx context.Context, cfg *config.Config, pinPoster batch.PinPoster, limiter ratelimit.Limiter, ckptManager *checkpoint.Manager, state *checkpoint.Checkpoint, resolution metadata.Resolution) (*models.BatchResult, error) {
	terminal := tui.NewTUI()

	for _, job := range resolution.Jobs {
		terminal.QueuePin(job.Filename, job.Board)
	}
	for _, o := range resolution.Skipped {
		terminal.QueuePin(o.Job.Filename, o.Job.Board)
	}

	runner := batch.NewRunner(tuiPoster{pinPoster, terminal}, batch.Options{
		Delay:   cfg.PinDelay(),
		Limiter: limiter,
		Logger:  logger.NewNopLogger(),
		OnOutcome: func(completed, total int, outcome models.Outcome) {
			terminal.FinishPin(outcome.Job.Filename, tuiState(outcome.Status), outcome.Reason, outcome.Duration)
		},
		Checkpoint: ckptManager,
		State:      state,
	})

	type batchOutput struct {
		result *models.BatchResult
		err    error
	}
	batchDone := make(chan batchOutput, 1)
	go func() {
		result, err := runner.Run(ctx, resolution.Jobs, resolution.Skipped...)
		terminal.BatchDone()
		batchDone <- batchOutput{result, err}
	}()

	tuiDone := make(chan error, 1)
	go func() {
		tuiDone <- terminal.Start()
	}()

	out := <-batchDone
	terminal.Stop()
	<-tuiDone

	return out.result, out.err
}

// tuiPoster forwards per-pin start events to the TUI around the real poster.
type tuiPoster struct {
	poster   batch.PinPoster
	terminal *tui.TUI
}

func (p tuiPoster) Post(ctx context.Context, job models.PostJob) (models.Outcome, error) {
	p.terminal.StartPin(job.Filename)
	return p.poster.Post(ctx, job)
}

func tuiState(status models.Status) tui.PinState {
	switch status {
	case models.StatusSucceeded:
		return tui.PinPosted
	case models.StatusSkipped:
		return tui.PinSkipped
	case models.StatusUnknown:
		return tui.PinUnknown
	default:
		return tui.PinFailed
	}
}

func writeReport(result *models.BatchResult) {
	if reportPath == "" {
		return
	}
	if err := report.Write(result, reportPath); err != nil {
		ui.PrintError("Failed to write report", err.Error())
		return
	}
	ui.PrintInfo("Report written", reportPath)
}

func notifyCompletion(result *models.BatchResult, runErr error) {
	notifier := ui.NewNotifier()
	summary := fmt.Sprintf("%d posted, %d failed, %d total",
		result.Succeeded, result.Failed, result.Total())

	if runErr != nil {
		notifier.SendError("PinPost Bot aborted", summary)
		return
	}
	notifier.SendSuccess("PinPost Bot finished", summary)
}
