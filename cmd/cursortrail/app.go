package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/launcher"
	"github.com/vedantwpatil/presentation-cursor/internal/recording"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

type Application struct {
	config   *config.Config
	locator  tracking.Locator
	launcher *launcher.Launcher
	recorder *recording.Recorder
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewApplication(parent context.Context, cfg *config.Config) *Application {
	ctx, cancel := context.WithCancel(parent)
	return &Application{
		config:  cfg,
		locator: tracking.NewSystem(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (app *Application) Run() error {
	defer app.cancel()

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	app.launcher = launcher.New(app.locator, launcher.WindowCommand(executable))
	app.recorder = recording.NewRecorder(app.config, app.locator)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Warn().Msg("stdin is not a terminal, use \"cursortrail record\" for unattended capture")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go app.handleSignals(sigChan)

	go tracking.WatchHotkey(app.ctx, app.config.Overlay.Hotkey, app.hotkeyPressed)

	for app.ctx.Err() == nil {
		if err := app.showMenu(); err != nil {
			return errors.Join(err, app.cleanup())
		}
	}
	return nil
}

func (app *Application) showMenu() error {
	fmt.Println("\nCommands:")
	fmt.Println("1. Activate overlay")
	fmt.Println("2. Deactivate overlay")
	fmt.Println("3. Record overlay capture")
	fmt.Println("4. Exit")
	fmt.Print("Choose an option: ")

	var choice int
	if _, err := fmt.Scanln(&choice); err != nil {
		if errors.Is(err, io.EOF) {
			return app.cleanup()
		}
		fmt.Println("Invalid option")
		return nil
	}

	switch choice {
	case 1:
		return app.activate()
	case 2:
		return app.deactivate()
	case 3:
		return app.startRecording()
	case 4:
		return app.cleanup()
	default:
		fmt.Println("Invalid option")
		return nil
	}
}

func (app *Application) activate() error {
	if err := app.launcher.Activate(); err != nil {
		if errors.Is(err, tracking.ErrNoDisplays) {
			fmt.Println("No displays found")
			return nil
		}
		return fmt.Errorf("failed to activate overlay: %w", err)
	}
	fmt.Printf("Overlay active on %d monitor(s). Press Ctrl+C or %v to turn it off.\n",
		app.launcher.Count(), app.config.Overlay.Hotkey)
	return nil
}

func (app *Application) deactivate() error {
	active, err := app.launcher.Deactivate()
	if err != nil {
		return fmt.Errorf("failed to deactivate overlay: %w", err)
	}
	if !active {
		fmt.Println("Overlay is not active")
		return nil
	}
	fmt.Println("Overlay deactivated")
	return nil
}

func (app *Application) startRecording() error {
	if app.recorder.IsRecording() {
		fmt.Println("Already recording")
		return nil
	}

	baseName, err := app.getBaseName()
	if err != nil {
		return err
	}

	if err := app.recorder.Start(baseName); err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}
	fmt.Println("Recording overlay capture... Press Ctrl+C to stop recording.")
	return nil
}

func (app *Application) getBaseName() (string, error) {
	fmt.Print("Enter the name you wish to save the capture under (Don't include the file format ex .mp4): ")
	var baseName string
	if _, err := fmt.Scanln(&baseName); err != nil {
		return "", fmt.Errorf("failed to read base name: %w", err)
	}
	return baseName, nil
}

func (app *Application) stopRecording() {
	fmt.Println("Stopping recording...")
	if err := app.recorder.Stop(); err != nil && !errors.Is(err, recording.ErrNotRecording) {
		log.Error().Err(err).Msg("recording failed")
		return
	}
	printSaved(app.recorder.Frames(), app.recorder.OutputPaths())
}

func (app *Application) cleanup() error {
	var errs []error
	if app.recorder.IsRecording() {
		app.stopRecording()
	}
	if _, err := app.launcher.Deactivate(); err != nil {
		errs = append(errs, err)
	}
	fmt.Println("Exiting...")
	app.cancel()
	return errors.Join(errs...)
}

func (app *Application) hotkeyPressed() {
	active, err := app.launcher.Deactivate()
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate overlay")
		return
	}
	if active {
		fmt.Println("\nOverlay deactivated")
	}
}

// handleSignals stops whatever is running on the first signal and exits the
// application when nothing is.
func (app *Application) handleSignals(sigChan chan os.Signal) {
	for sig := range sigChan {
		fmt.Printf("\nReceived signal: %v\n", sig)

		switch {
		case app.recorder.IsRecording():
			app.stopRecording()
		case app.launcher.Active():
			fmt.Println("Deactivating overlay...")
			if _, err := app.launcher.Deactivate(); err != nil {
				log.Error().Err(err).Msg("failed to deactivate overlay")
			}
		default:
			fmt.Println("Exiting application...")
			app.cancel()
			// The menu is blocked reading stdin.
			os.Exit(0)
		}
	}
}
