package main

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	catalogDI "github.com/fd1az/smart-pricing/business/catalog/di"
	pricingDI "github.com/fd1az/smart-pricing/business/pricing/di"
	"github.com/fd1az/smart-pricing/pkg/ui"
	"github.com/fd1az/smart-pricing/pkg/ui/components"
)

func runDashboard(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("dashboard")
	fs.Parse(args)

	// In TUI mode, suppress logs (discard output)
	app, err := bootstrap(ctx, *configPath, io.Discard)
	if err != nil {
		return err
	}
	defer app.shutdown()

	// Channel to receive the welcome-complete signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program immediately (shows welcome screen)
	p := tea.NewProgram(ui.New(version), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.Program = p

	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			return
		}
		startDashboard(ctx, app)
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startDashboard starts the modules one by one, reporting progress to the TUI.
func startDashboard(ctx context.Context, app *application) {
	ui.Send(ui.StartupMsg{Step: "config", Status: "done"})

	ui.Send(ui.StartupMsg{Step: "artifact", Status: "loading"})
	if err := app.mono.StartModules(ctx, app.pricing); err != nil {
		ui.Send(ui.StartupMsg{Step: "artifact", Status: "failed", Message: err.Error()})
		ui.Send(ui.ErrorMsg{Error: err})
		return
	}
	ui.Send(artifactStatus(app))

	ui.Send(ui.StartupMsg{Step: "catalog", Status: "loading"})
	if err := app.mono.StartModules(ctx, app.catalog); err != nil {
		ui.Send(ui.StartupMsg{Step: "catalog", Status: "failed", Message: err.Error()})
		ui.Send(ui.ErrorMsg{Error: err})
		return
	}
	ui.Send(ui.StartupMsg{Step: "catalog", Status: "done"})

	svc := catalogDI.GetCatalogService(app.mono.Services())
	ui.Send(ui.StatusMsg{Status: components.SourceStatus{
		Name:    "Catalog",
		OK:      true,
		Detail:  app.cfg.Data.CompetitorPricesPath,
		Updated: svc.LoadedAt(),
	}})
	ui.Send(ui.ReadyMsg{Catalog: svc})
}

func artifactStatus(app *application) ui.StartupMsg {
	engine := pricingDI.GetDecisionEngine(app.mono.Services())
	if engine.RuleOnly() {
		ui.Send(ui.StatusMsg{Status: components.SourceStatus{Name: "Artifact", OK: false, Detail: "not configured, rule-based"}})
		return ui.StartupMsg{Step: "artifact", Status: "done", Message: "rule-based mode"}
	}

	art, loadedAt, ok := pricingDI.GetArtifactAdapter(app.mono.Services()).Status()
	if !ok {
		ui.Send(ui.StatusMsg{Status: components.SourceStatus{Name: "Artifact", OK: false, Detail: "load failed, rule-based fallback", Updated: time.Now()}})
		return ui.StartupMsg{Step: "artifact", Status: "failed", Message: "using rule-based fallback"}
	}
	detail := fmt.Sprintf("%s %s", art.Kind, art.Version)
	ui.Send(ui.StatusMsg{Status: components.SourceStatus{Name: "Artifact", OK: true, Detail: detail, Updated: loadedAt}})
	return ui.StartupMsg{Step: "artifact", Status: "done", Message: detail}
}
